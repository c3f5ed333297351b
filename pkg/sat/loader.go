package sat

import (
	"fmt"
	"sort"

	"github.com/crillab/gophersat/solver"
	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type fullKey struct {
	hospital int
	resident int
	need     int
}

type Loader struct {
	m *Model
	// rank[h][r] is the position of r on h's list
	rank []map[int]int
	// occupants[h][r] holds the assignment variables which seat r at h
	occupants []map[int][]*Var
	full      map[fullKey]*Var
	// firstAssign maps a unit to the index of its first assignment variable
	firstAssign map[int]int
}

func NewLoader() *Loader {
	return &Loader{
		m:           &Model{},
		full:        map[fullKey]*Var{},
		firstAssign: map[int]int{},
	}
}

// Load encodes the instance: every single and couple takes at most one list
// position, hospitals stay within capacity, every position a unit misses
// while the hospitals would still take it costs a blocking pair, and at most
// maxBP blocking pairs are allowed.
func (loader *Loader) Load(in *api.Instance, maxBP int) (*Model, error) {
	if maxBP < 0 {
		return nil, fmt.Errorf("negative blocking pair budget %d", maxBP)
	}
	loader.m.in = in
	loader.m.maxBP = maxBP
	loader.rank = make([]map[int]int, in.Hospitals)
	loader.occupants = make([]map[int][]*Var, in.Hospitals)
	for h, prefs := range in.HospitalPrefs {
		loader.rank[h] = map[int]int{}
		loader.occupants[h] = map[int][]*Var{}
		for i, r := range prefs {
			loader.rank[h][r] = i
		}
	}

	// Generate assignment variables
	units := loader.units()
	for _, u := range units {
		var lits []int
		loader.firstAssign[u] = len(loader.m.assign)
		for j := range in.ResidentPrefs[u] {
			v := loader.newVar(VarTypeAssign, u, j, -1)
			loader.m.assign = append(loader.m.assign, v)
			lits = append(lits, v.satVarName)
			for _, r := range loader.members(u) {
				h := in.ResidentPrefs[r][j]
				loader.occupants[h][r] = append(loader.occupants[h][r], v)
			}
		}
		if len(lits) > 1 {
			loader.m.constrs = append(loader.m.constrs, solver.AtMost(lits, 1))
		}
	}
	logrus.Infof("Generated %d assignment variables.", len(loader.m.assign))

	for h := 0; h < in.Hospitals; h++ {
		loader.capacity(h)
	}

	for _, u := range units {
		if err := loader.blockingClauses(u); err != nil {
			return nil, err
		}
	}

	if len(loader.m.blocking) > maxBP {
		var lits []int
		for _, b := range loader.m.blocking {
			lits = append(lits, b.satVarName)
		}
		loader.m.constrs = append(loader.m.constrs, solver.AtMost(lits, maxBP))
	}
	logrus.Infof("Generated %d variables, %d blocking candidates.", len(loader.m.vars), len(loader.m.blocking))
	return loader.m, nil
}

func (loader *Loader) units() []int {
	var units []int
	for k := 0; k < loader.m.in.Couples; k++ {
		units = append(units, 2*k)
	}
	for r := 2 * loader.m.in.Couples; r < loader.m.in.Residents; r++ {
		units = append(units, r)
	}
	return units
}

func (loader *Loader) members(u int) []int {
	if u < 2*loader.m.in.Couples {
		return []int{u, u + 1}
	}
	return []int{u}
}

func (loader *Loader) newVar(t VarType, unit, position, hospital int) *Var {
	v := &Var{
		satVarName: len(loader.m.vars) + 1,
		varType:    t,
		Unit:       unit,
		Position:   position,
		Hospital:   hospital,
	}
	loader.m.vars = append(loader.m.vars, v)
	return v
}

func (loader *Loader) capacity(h int) {
	weights := map[int]int{}
	total := 0
	for _, vars := range loader.occupants[h] {
		for _, v := range vars {
			weights[v.satVarName]++
			total++
		}
	}
	if total <= loader.m.in.Capacities[h] {
		return
	}
	lits, ws := sortedWeights(weights)
	loader.m.constrs = append(loader.m.constrs, solver.LtEq(lits, ws, loader.m.in.Capacities[h]))
}

func (loader *Loader) blockingClauses(u int) error {
	in := loader.m.in
	for j := range in.ResidentPrefs[u] {
		clause := []int{}
		for k := 0; k <= j; k++ {
			clause = append(clause, loader.m.assign[loader.firstAssign[u]+k].satVarName)
		}

		members := loader.members(u)
		if len(members) == 2 && in.ResidentPrefs[u][j] == in.ResidentPrefs[u+1][j] {
			h := in.ResidentPrefs[u][j]
			need := in.Capacities[h] - 1
			if need <= 0 {
				// the hospital can never seat both members
				continue
			}
			worse := members[0]
			if loader.rank[h][members[1]] > loader.rank[h][worse] {
				worse = members[1]
			}
			f, err := loader.fullVar(h, worse, need, members)
			if err != nil {
				return err
			}
			clause = append(clause, f.satVarName)
		} else {
			for _, r := range members {
				f, err := loader.fullVar(in.ResidentPrefs[r][j], r, in.Capacities[in.ResidentPrefs[r][j]], members)
				if err != nil {
					return err
				}
				clause = append(clause, f.satVarName)
			}
		}

		b := loader.newVar(VarTypeBlocking, u, j, -1)
		loader.m.blocking = append(loader.m.blocking, b)
		clause = append(clause, b.satVarName)
		loader.m.constrs = append(loader.m.constrs, solver.PropClause(clause...))
	}
	return nil
}

// fullVar returns a variable which may only be true if at least need
// residents ranked above r at h, other than the given unit members, are
// seated at h.
func (loader *Loader) fullVar(h, r, need int, members []int) (*Var, error) {
	key := fullKey{hospital: h, resident: r, need: need}
	if v, exists := loader.full[key]; exists {
		return v, nil
	}
	rank, ok := loader.rank[h][r]
	if !ok {
		return nil, fmt.Errorf("hospital %d does not rank resident %d", h, r)
	}

	v := loader.newVar(VarTypeFull, r, -1, h)
	loader.full[key] = v
	weights := map[int]int{}
	for other, vars := range loader.occupants[h] {
		if loader.rank[h][other] >= rank || slices.Contains(members, other) {
			continue
		}
		for _, o := range vars {
			weights[o.satVarName]++
		}
	}
	lits, ws := sortedWeights(weights)
	lits = append(lits, -v.satVarName)
	ws = append(ws, need)
	loader.m.constrs = append(loader.m.constrs, solver.GtEq(lits, ws, need))
	return v, nil
}

func sortedWeights(weights map[int]int) (lits []int, ws []int) {
	for lit := range weights {
		lits = append(lits, lit)
	}
	sort.Ints(lits)
	for _, lit := range lits {
		ws = append(ws, weights[lit])
	}
	return lits, ws
}
