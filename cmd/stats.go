package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/hrctools/hrcpresolve/pkg/presolve"
	"github.com/spf13/cobra"
)

type statsOpts struct {
	modelOpts
	decisions bool
}

var statsopts = statsOpts{}

func NewStatsCmd() *cobra.Command {

	statsCmd := &cobra.Command{
		Use:   "stats [max_bp]",
		Short: "reports how much presolve shrinks an instance",
		Long:  `presolves an HRC instance and prints list sizes before and after, together with the work both passes did`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := toSettings(loadedConfig, args, cmd.Flags().Changed, statsopts.modelOpts, "")
			if err != nil {
				return err
			}
			src, m, stats, err := loadAndPresolve(cmd.Context(), statsopts.in, s)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), src.Instance, m.Export(), stats, statsopts.decisions)
		},
	}

	addModelFlags(statsCmd, &statsopts.modelOpts)
	statsCmd.PersistentFlags().BoolVarP(&statsopts.decisions, "decisions", "d", false, "list every trim decision")
	return statsCmd
}

func printStats(out io.Writer, before, after *api.Instance, stats *presolve.Stats, decisions bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\tbefore\tafter\n")
	fmt.Fprintf(w, "edges\t%d\t%d\n", before.Edges(), after.Edges())
	fmt.Fprintf(w, "list entries\t%d\t%d\n", before.ListEntries(), after.ListEntries())
	fmt.Fprintf(w, "empty resident lists\t%d\t%d\n", emptyLists(before.ResidentPrefs), emptyLists(after.ResidentPrefs))
	fmt.Fprintf(w, "empty hospital lists\t%d\t%d\n", emptyLists(before.HospitalPrefs), emptyLists(after.HospitalPrefs))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "worklist pops\t%d\n", stats.Pops)
	fmt.Fprintf(w, "trimmed resident lists\t%d\n", stats.TrimmedLists)
	fmt.Fprintf(w, "truncation rounds\t%d\n", stats.TruncationRounds)
	fmt.Fprintf(w, "truncated hospital lists\t%d\n", stats.TruncatedLists)
	fmt.Fprintf(w, "removed edges\t%d\n", stats.RemovedEdges)
	if decisions {
		fmt.Fprintf(w, "\npass\tresident\thospital\tposition\tcount\tthreshold\n")
		for _, d := range stats.Decisions {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", d.Pass, d.Resident, d.Hospital, d.Position, d.Count, d.Threshold)
		}
	}
	return w.Flush()
}

func emptyLists(lists [][]int) (n int) {
	for _, l := range lists {
		if len(l) == 0 {
			n++
		}
	}
	return n
}
