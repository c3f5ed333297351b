package sat

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type VarType string

const (
	VarTypeAssign   VarType = "Assign"
	VarTypeBlocking VarType = "Blocking"
	VarTypeFull     VarType = "Full"
)

// Var is a solver variable. Unit is the resident for singles and the lower id
// for couples, Position the index on the unit's list. Full variables only set
// Hospital and Unit (the resident whose seat is in question).
type Var struct {
	satVarName int
	varType    VarType
	Unit       int
	Position   int
	Hospital   int
}

func (v *Var) String() string {
	return fmt.Sprintf("x%d(%s unit=%d pos=%d hosp=%d)", v.satVarName, v.varType, v.Unit, v.Position, v.Hospital)
}

// Model is the pseudo-boolean encoding of an instance under a blocking pair budget.
type Model struct {
	in       *api.Instance
	maxBP    int
	vars     []*Var
	assign   []*Var
	blocking []*Var
	constrs  []solver.PBConstr
}

func (m *Model) Vars() int        { return len(m.vars) }
func (m *Model) Constraints() int { return len(m.constrs) }

type Result struct {
	Feasible bool
	// Assignment holds the hospital per resident, -1 if unassigned.
	Assignment []int
	// Positions holds the list position per resident, -1 if unassigned.
	Positions     []int
	BlockingPairs int
}

// Solve hands the model to gophersat.
func Solve(m *Model) (*Result, error) {
	res := &Result{
		Assignment: make([]int, m.in.Residents),
		Positions:  make([]int, m.in.Residents),
	}
	for r := range res.Assignment {
		res.Assignment[r] = -1
		res.Positions[r] = -1
	}
	if len(m.constrs) == 0 {
		logrus.Info("No constraints, the empty matching is feasible.")
		res.Feasible = true
		return res, nil
	}

	logrus.Infof("Solving %d variables, %d constraints.", len(m.vars), len(m.constrs))
	s := solver.New(solver.ParsePBConstrs(m.constrs))
	if s.Solve() != solver.Sat {
		return res, nil
	}
	res.Feasible = true
	model := s.Model()
	for _, v := range m.assign {
		if v.satVarName > len(model) || !model[v.satVarName-1] {
			continue
		}
		res.Positions[v.Unit] = v.Position
		res.Assignment[v.Unit] = m.in.ResidentPrefs[v.Unit][v.Position]
		if v.Unit < 2*m.in.Couples {
			res.Positions[v.Unit+1] = v.Position
			res.Assignment[v.Unit+1] = m.in.ResidentPrefs[v.Unit+1][v.Position]
		}
	}
	res.BlockingPairs = BlockingPairs(m.in, res.Positions)
	if res.BlockingPairs > m.maxBP {
		return nil, fmt.Errorf("solver returned a matching with %d blocking pairs, budget is %d", res.BlockingPairs, m.maxBP)
	}
	return res, nil
}

// Rebase maps res onto in, whose lists hold the solved lists as subsequences,
// usually the instance before presolve. Positions and BlockingPairs are
// recomputed against in.
func Rebase(res *Result, in *api.Instance) (*Result, error) {
	out := &Result{
		Feasible:   res.Feasible,
		Assignment: slices.Clone(res.Assignment),
		Positions:  make([]int, len(res.Assignment)),
	}
	for r := range out.Positions {
		out.Positions[r] = -1
	}
	for r, h := range res.Assignment {
		if h < 0 || out.Positions[r] >= 0 {
			continue
		}
		if r >= 2*in.Couples {
			j := slices.Index(in.ResidentPrefs[r], h)
			if j < 0 {
				return nil, fmt.Errorf("resident %d does not rank hospital %d", r, h)
			}
			out.Positions[r] = j
			continue
		}
		partner := r ^ 1
		first, second := r, partner
		if r%2 == 1 {
			first, second = partner, r
		}
		j := jointIndex(in, first, res.Assignment[first], res.Assignment[second])
		if j < 0 {
			return nil, fmt.Errorf("couple (%d,%d) does not rank hospitals (%d,%d)", first, second, res.Assignment[first], res.Assignment[second])
		}
		out.Positions[first] = j
		out.Positions[second] = j
	}
	out.BlockingPairs = BlockingPairs(in, out.Positions)
	return out, nil
}

func jointIndex(in *api.Instance, first, h1, h2 int) int {
	for j, h := range in.ResidentPrefs[first] {
		if h == h1 && in.ResidentPrefs[first+1][j] == h2 {
			return j
		}
	}
	return -1
}
