package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugsync/plugsync/internal/application/checker"
	"github.com/plugsync/plugsync/internal/infrastructure/config"
	"github.com/plugsync/plugsync/internal/infrastructure/notify"
	"github.com/plugsync/plugsync/internal/infrastructure/registry"
	"github.com/plugsync/plugsync/internal/infrastructure/store"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds the dependencies shared by the plugsync commands.
type CLIContainer struct {
	Config   *config.Config
	Registry *registry.FileRegistry
	Checker  *checker.UpdateChecker
	Files    *store.FileStore
	Archive  *store.ArchiveStore
}

// NewRootCommand builds the plugsync command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plugsync",
		Short: "plugsync - plugin update checker and installer",
		Long: `plugsync checks configured manifest sources for plugin updates,
compares advertised versions against locally installed plugins, and can
download or remove plugin files, optionally packed into a single plugins.zip
archive used as a virtual plugin folder.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.plugsync/config.yaml)")
	rootCmd.PersistentFlags().String("plugins-dir", "", "Directory holding loose plugin files")
	rootCmd.PersistentFlags().Bool("archive", false, "Store plugin files inside the plugins archive")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress update-available notifications")

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewUninstallCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// buildContainer loads configuration, applies flag overrides, and wires the
// checker with its stores and notification sink.
func buildContainer(cmd *cobra.Command) (*CLIContainer, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("plugins-dir") {
		cfg.PluginsDir, _ = cmd.Flags().GetString("plugins-dir")
	}
	if cmd.Flags().Changed("archive") {
		cfg.SaveToArchive, _ = cmd.Flags().GetBool("archive")
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		cfg.Notifications = false
	}

	client := &http.Client{Timeout: 30 * time.Second}
	files := store.NewFileStore(cfg.PluginsDir, client)
	archive := store.NewArchiveStore(cfg.ArchivePath)
	sink := notify.NewConsoleSink(cmd.ErrOrStderr())

	return &CLIContainer{
		Config:   cfg,
		Registry: registry.NewFileRegistry(cfg.ConfigDir),
		Checker: checker.New(files, archive, sink,
			checker.WithHTTPClient(client),
			checker.WithNotifications(cfg.Notifications),
		),
		Files:   files,
		Archive: archive,
	}, nil
}

// goVersion returns the Go version used to build the binary.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the plugsync command tree.
func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
