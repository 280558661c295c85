package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugsync/plugsync/internal/core/domain"
)

// NewUninstallCommand creates the uninstall command.
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove an installed plugin",
		Long: `Remove the named plugin's files from the plugins directory and,
with --archive, from the plugins archive. The archive file is deleted once it
holds no entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			name := args[0]

			entry, ok, err := container.Registry.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("plugin %s is not installed", name)
			}

			record := domain.PluginRecord{
				Name:             entry.Name,
				CurrentVersion:   entry.Version,
				InstalledVersion: entry.Version,
				DownloadFiles:    entry.Files,
			}

			if !container.Checker.Uninstall(cmd.Context(), record, container.Config.SaveToArchive) {
				return fmt.Errorf("plugin %s was not removed", name)
			}

			if err := container.Registry.Remove(cmd.Context(), name); err != nil {
				return fmt.Errorf("removed %s but failed to update registry: %w", name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled %s\n", name)
			return nil
		},
	}
}
