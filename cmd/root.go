package main

import (
	"fmt"
	"os"

	"github.com/hrctools/hrcpresolve/pkg/api/hrcpresolve"
	"github.com/hrctools/hrcpresolve/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	logLevel string
	config   string
}

var rootopts = rootOpts{}

// loadedConfig is populated before any subcommand runs.
var loadedConfig = &hrcpresolve.Config{}

var rootCmd = &cobra.Command{
	Use:   "hrcpresolve",
	Short: "hrcpresolve shrinks hospitals/residents with couples instances before they are solved",
	Long: `The tool prunes resident and hospital preference lists of HRC instances which admit a bounded number of
blocking pairs, without removing any edge a feasible matching could use, and hands the result to a constraint solver`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootopts.config)
		if err != nil {
			return err
		}
		level := rootopts.logLevel
		if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
			level = cfg.LogLevel
		}
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
		loadedConfig = cfg
		return nil
	},
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&rootopts.logLevel, "log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().StringVarP(&rootopts.config, "config", "c", "", "config file, defaults to $XDG_CONFIG_HOME/"+config.RelPath)
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewPresolveCmd())
	rootCmd.AddCommand(NewSolveCmd())
	rootCmd.AddCommand(NewStatsCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
