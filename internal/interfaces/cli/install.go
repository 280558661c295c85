package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugsync/plugsync/internal/core/domain"
)

// NewInstallCommand creates the install command.
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <name> [url...]",
		Short: "Download and install a plugin",
		Long: `Install the named plugin from the configured manifest sources
(plus any URLs passed as arguments). Every file the manifest lists for the
plugin is downloaded; with --archive the files are stored inside the plugins
archive instead of as loose files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			name := args[0]

			urls := append([]string{}, container.Config.Sources...)
			urls = append(urls, args[1:]...)
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

			var record *domain.PluginRecord
			for i := range records {
				if records[i].Name == name {
					record = &records[i]
					break
				}
			}
			if record == nil {
				return fmt.Errorf("plugin %s not found in any manifest", name)
			}

			if !container.Checker.Install(cmd.Context(), *record, container.Config.SaveToArchive) {
				return fmt.Errorf("plugin %s was not installed", name)
			}

			local := domain.LocalPlugin{Name: record.Name, Version: record.CurrentVersion}
			if err := container.Registry.Add(cmd.Context(), local, record.DownloadFiles); err != nil {
				return fmt.Errorf("installed %s but failed to update registry: %w", name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s (%d files)\n",
				record.Name, record.CurrentVersion, len(record.DownloadFiles))
			return nil
		},
	}
}
