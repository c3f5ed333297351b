package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/hrctools/hrcpresolve/pkg/api/hrcpresolve"
	"github.com/hrctools/hrcpresolve/pkg/dzn"
	"github.com/hrctools/hrcpresolve/pkg/sat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type presolveOpts struct {
	modelOpts
	out    string
	format string
}

var presolveopts = presolveOpts{}

func NewPresolveCmd() *cobra.Command {

	presolveCmd := &cobra.Command{
		Use:   "presolve [max_bp]",
		Short: "prunes the preference lists of an instance and writes the result",
		Long: `prunes resident and hospital preference lists of an HRC instance under a budget of max_bp blocking pairs
and writes the reduced instance as MiniZinc data, OPB constraints, YAML or JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := toSettings(loadedConfig, args, cmd.Flags().Changed, presolveopts.modelOpts, presolveopts.format)
			if err != nil {
				return err
			}
			src, m, stats, err := loadAndPresolve(cmd.Context(), presolveopts.in, s)
			if err != nil {
				return err
			}
			reduced := m.Export()
			comments := headerComments(src, s, stats)
			logrus.Infof("Writing %s output.", s.format)
			err = withOutput(presolveopts.out, func(w io.Writer) error {
				return write(w, reduced, s, comments)
			})
			if err != nil {
				return err
			}
			logrus.Info("Done.")
			return nil
		},
	}

	addModelFlags(presolveCmd, &presolveopts.modelOpts)
	presolveCmd.PersistentFlags().StringVarP(&presolveopts.out, "output", "o", "-", "where to write the reduced instance, - for stdout")
	presolveCmd.PersistentFlags().StringVarP(&presolveopts.format, "format", "f", hrcpresolve.FormatDZN, "output format (dzn, opb, yaml, json)")
	return presolveCmd
}

func addModelFlags(cmd *cobra.Command, opts *modelOpts) {
	cmd.PersistentFlags().StringVarP(&opts.in, "input", "i", "-", "instance file, - for stdin. Compressed files are unpacked")
	cmd.PersistentFlags().BoolVar(&opts.noPresolve, "no-presolve", false, "pass the instance through unmodified")
}

func write(w io.Writer, in *api.Instance, s *settings, comments []string) error {
	switch s.format {
	case hrcpresolve.FormatDZN:
		return (&dzn.Writer{MaxBP: s.maxBP, Comments: comments}).Write(w, in)
	case hrcpresolve.FormatOPB:
		model, err := sat.NewLoader().Load(in, s.maxBP)
		if err != nil {
			return err
		}
		return model.WriteOPB(w, comments...)
	case hrcpresolve.FormatYAML:
		data, err := yaml.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal instance: %v", err)
		}
		_, err = w.Write(data)
		return err
	case hrcpresolve.FormatJSON:
		data, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal instance: %v", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return fmt.Errorf("unknown format %q", s.format)
}
