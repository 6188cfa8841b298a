// Command ls-natal casts natal charts and shows them as text tables, JSON or
// a terminal UI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "ls-natal",
		Short:         "Natal chart calculator",
		Long:          "ls-natal computes house cusps, planet positions, aspects and midpoints for a birth moment and place.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default is $HOME/"+config.DirName+"/"+config.FileName+")")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newChartCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newVersionCmd())
	return root
}

// load reads the configuration and applies the global flag overrides.
func (g *globalFlags) load() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger := cfg.Log.Logger()
	logger.Debug("config loaded: ephemeris=%s orbs=%s", cfg.Ephemeris.Mode, cfg.Chart.Orbs)
	return cfg, logger, nil
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-natal %s\n", version.Version)
		},
	}
}
