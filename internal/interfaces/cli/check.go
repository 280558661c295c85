package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plugsync/plugsync/internal/core/domain"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [url...]",
		Short: "Check manifest sources for plugin updates",
		Long: `Check the configured manifest sources (plus any URLs passed as
arguments) for available plugins and compare the advertised versions against
the locally installed ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd)
			if err != nil {
				return err
			}

			urls := append([]string{}, container.Config.Sources...)
			urls = append(urls, args...)
			if len(urls) == 0 {
				return fmt.Errorf("no manifest sources configured; add sources to the config file or pass URLs as arguments")
			}

			installed, err := container.Registry.Installed(cmd.Context())
			if err != nil {
				return err
			}
			if installed == nil {
				installed = []domain.LocalPlugin{}
			}

			records, err := container.Checker.CheckForUpdates(cmd.Context(), urls, installed)
			if err != nil {
				return err
			}

			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func printRecords(out io.Writer, records []domain.PluginRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No plugins discovered.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAVAILABLE\tINSTALLED\tFILES\tSTATUS")
	for _, r := range records {
		installed := r.InstalledVersion
		if installed == "" {
			installed = "-"
		}
		status := "up to date"
		switch {
		case r.InstalledVersion == "":
			status = "not installed"
		case r.NeedsUpdate():
			status = "update available"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.Name, r.CurrentVersion, installed, len(r.DownloadFiles), status)
	}
	w.Flush()
}
