package presolve

import (
	"github.com/hrctools/hrcpresolve/pkg/instance"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// MaxBP is the number of blocking pairs an accepted matching may contain.
	MaxBP int
	// Skip returns the instance untouched.
	Skip bool
	// OnDecision is called with every decision before the model is cut.
	OnDecision func(Decision)
}

type Pass string

const (
	PassWorklist   Pass = "worklist"
	PassTruncation Pass = "truncation"
)

// Decision records a single trim. Resident is -1 for hospital truncations,
// Hospital is -1 for worklist trims. Position is the last retained index.
type Decision struct {
	Pass      Pass
	Resident  int
	Hospital  int
	Position  int
	Count     int
	Threshold int
}

type Stats struct {
	Pops             int
	TrimmedLists     int
	TruncationRounds int
	TruncatedLists   int
	RemovedEdges     int
	Decisions        []Decision
}

// Run presolves m in place.
func Run(m *instance.Model, opts Options) (*Stats, error) {
	stats := &Stats{}
	if opts.Skip {
		logrus.Info("Presolve disabled.")
		return stats, nil
	}
	e := &engine{
		m:     m,
		opts:  opts,
		work:  newWorklist(m.Residents()),
		stats: stats,
	}

	logrus.Info("Trimming resident preferences.")
	if err := e.propagate(); err != nil {
		return stats, err
	}
	logrus.Infof("Worklist pass: %d pops, %d lists trimmed, %d edges removed.", stats.Pops, stats.TrimmedLists, stats.RemovedEdges)

	logrus.Info("Truncating hospital preferences.")
	removed := stats.RemovedEdges
	for {
		stats.TruncationRounds++
		truncated, err := e.truncateHospitals()
		if err != nil {
			return stats, err
		}
		if !truncated {
			break
		}
	}
	logrus.Infof("Truncation pass: %d rounds, %d hospital lists truncated, %d edges removed.", stats.TruncationRounds, stats.TruncatedLists, stats.RemovedEdges-removed)
	return stats, nil
}

type engine struct {
	m     *instance.Model
	opts  Options
	work  *worklist
	stats *Stats
}

func (e *engine) record(d Decision) {
	logrus.Debugf("%s: resident %d hospital %d cut after position %d (count %d, threshold %d)", d.Pass, d.Resident, d.Hospital, d.Position, d.Count, d.Threshold)
	e.stats.Decisions = append(e.stats.Decisions, d)
	if e.opts.OnDecision != nil {
		e.opts.OnDecision(d)
	}
}
