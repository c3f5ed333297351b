package main

import (
	"github.com/hrctools/hrcpresolve/pkg/api/hrcpresolve"
	"github.com/hrctools/hrcpresolve/pkg/config"
	"github.com/spf13/cobra"
)

type initOpts struct {
	maxBP  int
	format string
	out    string
}

var initopts = initOpts{}

func NewInitCmd() *cobra.Command {

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default settings",
		Long:  `Create a config file in the XDG config directory, or at the given location, which later invocations pick up`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.NewConfigInit(initopts.out, initopts.maxBP, initopts.format).Init()
		},
	}

	initCmd.Flags().IntVarP(&initopts.maxBP, "max-bp", "m", 0, "default number of permitted blocking pairs")
	initCmd.Flags().StringVarP(&initopts.format, "format", "f", hrcpresolve.FormatDZN, "default output format (dzn, opb, yaml, json)")
	initCmd.Flags().StringVarP(&initopts.out, "output", "o", "", "where to write the config file, defaults to $XDG_CONFIG_HOME/"+config.RelPath)
	return initCmd
}
