package presolve

import (
	"math/rand"

	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/hrctools/hrcpresolve/pkg/instance"
)

func newInstance(ncoup int, caps []int, rpref [][]int, hospitalOrder map[int][]int) *api.Instance {
	hpref := make([][]int, len(caps))
	for h := range caps {
		if order, ok := hospitalOrder[h]; ok {
			hpref[h] = order
			continue
		}
		hpref[h] = []int{}
		for r, prefs := range rpref {
			for _, hosp := range prefs {
				if hosp == h {
					hpref[h] = append(hpref[h], r)
					break
				}
			}
		}
	}
	return &api.Instance{
		Residents:     len(rpref),
		Hospitals:     len(caps),
		Couples:       ncoup,
		ResidentPrefs: rpref,
		HospitalPrefs: hpref,
		Capacities:    caps,
	}
}

func mustModel(in *api.Instance) *instance.Model {
	m, err := instance.New(in)
	if err != nil {
		panic(err)
	}
	return m
}

// randomInstance generates a consistent instance. Couples pick joint choices
// independently per member, so they may name the same hospital repeatedly.
func randomInstance(rnd *rand.Rand, nres, nhosp, ncoup, maxLen, maxCap int) *api.Instance {
	rpref := make([][]int, nres)
	for k := 0; k < ncoup; k++ {
		n := 1 + rnd.Intn(maxLen)
		for _, r := range []int{2 * k, 2*k + 1} {
			rpref[r] = make([]int, n)
			for j := range rpref[r] {
				rpref[r][j] = rnd.Intn(nhosp)
			}
		}
	}
	for r := 2 * ncoup; r < nres; r++ {
		n := 1 + rnd.Intn(min(maxLen, nhosp))
		rpref[r] = rnd.Perm(nhosp)[:n]
	}

	caps := make([]int, nhosp)
	hpref := make([][]int, nhosp)
	for h := range caps {
		caps[h] = 1 + rnd.Intn(maxCap)
		for _, r := range rnd.Perm(nres) {
			for _, hosp := range rpref[r] {
				if hosp == h {
					hpref[h] = append(hpref[h], r)
					break
				}
			}
		}
	}
	return &api.Instance{
		Residents:     nres,
		Hospitals:     nhosp,
		Couples:       ncoup,
		ResidentPrefs: rpref,
		HospitalPrefs: hpref,
		Capacities:    caps,
	}
}

// matchings calls visit for every capacity respecting matching. positions[r]
// is a position on r's list or -1, couple members always share a position.
func matchings(in *api.Instance, visit func(positions []int)) {
	var units []int
	for k := 0; k < in.Couples; k++ {
		units = append(units, 2*k)
	}
	for r := 2 * in.Couples; r < in.Residents; r++ {
		units = append(units, r)
	}

	positions := make([]int, in.Residents)
	for r := range positions {
		positions[r] = -1
	}
	load := make([]int, in.Hospitals)
	var walk func(i int)
	walk = func(i int) {
		if i == len(units) {
			visit(positions)
			return
		}
		members := []int{units[i]}
		if units[i] < 2*in.Couples {
			members = append(members, units[i]+1)
		}
		walk(i + 1)
		for j := range in.ResidentPrefs[units[i]] {
			fits := true
			for _, r := range members {
				h := in.ResidentPrefs[r][j]
				load[h]++
				fits = fits && load[h] <= in.Capacities[h]
			}
			if fits {
				for _, r := range members {
					positions[r] = j
				}
				walk(i + 1)
				for _, r := range members {
					positions[r] = -1
				}
			}
			for _, r := range members {
				load[in.ResidentPrefs[r][j]]--
			}
		}
	}
	walk(0)
}
