package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hrctools/hrcpresolve/pkg/sat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type solveOpts struct {
	modelOpts
	out string
}

var solveopts = solveOpts{}

func NewSolveCmd() *cobra.Command {

	solveCmd := &cobra.Command{
		Use:   "solve [max_bp]",
		Short: "presolves an instance and searches a matching with at most max_bp blocking pairs",
		Long: `presolves an HRC instance, encodes it as pseudo-boolean constraints and solves it with gophersat.
Prints the hospital of every resident, or reports that no matching within the budget exists`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := toSettings(loadedConfig, args, cmd.Flags().Changed, solveopts.modelOpts, "")
			if err != nil {
				return err
			}
			res, err := solveInstance(cmd.Context(), solveopts.in, s)
			if err != nil {
				return err
			}
			err = withOutput(solveopts.out, func(w io.Writer) error {
				return printResult(w, res)
			})
			if err != nil {
				return err
			}
			logrus.Info("Done.")
			return nil
		},
	}

	addModelFlags(solveCmd, &solveopts.modelOpts)
	solveCmd.PersistentFlags().StringVarP(&solveopts.out, "output", "o", "-", "where to write the matching, - for stdout")
	return solveCmd
}

// solveInstance presolves and solves the instance at in. The blocking pairs
// of the result are counted on the instance as it was read.
func solveInstance(ctx context.Context, in string, s *settings) (*sat.Result, error) {
	src, m, _, err := loadAndPresolve(ctx, in, s)
	if err != nil {
		return nil, err
	}
	logrus.Info("Encoding the instance.")
	model, err := sat.NewLoader().Load(m.Export(), s.maxBP)
	if err != nil {
		return nil, err
	}
	logrus.Info("Solving.")
	res, err := sat.Solve(model)
	if err != nil || !res.Feasible {
		return res, err
	}
	res, err = sat.Rebase(res, src.Instance)
	if err != nil {
		return nil, fmt.Errorf("internal error mapping the matching onto %s: %w", src.Name, err)
	}
	if res.BlockingPairs > s.maxBP {
		logrus.Warnf("Matching has %d blocking pairs on %s, budget is %d.", res.BlockingPairs, src.Name, s.maxBP)
	}
	return res, nil
}

func printResult(w io.Writer, res *sat.Result) error {
	if !res.Feasible {
		_, err := fmt.Fprintln(w, "infeasible")
		return err
	}
	if _, err := fmt.Fprintf(w, "feasible with %d blocking pairs\n", res.BlockingPairs); err != nil {
		return err
	}
	for r, h := range res.Assignment {
		if _, err := fmt.Fprintf(w, "%d %d\n", r, h); err != nil {
			return err
		}
	}
	return nil
}
