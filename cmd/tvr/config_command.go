package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/tvratings/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := ctx.configPath()
			if path == "" {
				path = config.DefaultPath()
			}
			rows := [][]string{
				{"config file", path},
				{"env", cfg.Env},
				{"data service", cfg.DataURL()},
				{"job service", cfg.JobURL()},
				{"fetch timeout", timeoutString(cfg)},
				{"history limit", fmt.Sprint(cfg.HistoryLimit)},
				{"data dir", cfg.Dir()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	})

	var initPath string
	var overwrite bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(initPath)
			if path == "" {
				path = ctx.configPath()
			}
			if path == "" {
				path = config.DefaultPath()
			}
			if !overwrite && fileExists(path) {
				return fmt.Errorf("%s already exists; pass --overwrite to replace it", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "Where to write the file")
	initCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}

func timeoutString(cfg *config.Config) string {
	if cfg.FetchTimeout() == 0 {
		return "none"
	}
	return cfg.FetchTimeout().String()
}
