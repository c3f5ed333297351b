package sat

import (
	"math"
	"math/rand"

	"github.com/hrctools/hrcpresolve/pkg/api"
)

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

// minBlockingPairs enumerates every capacity respecting matching and returns
// the smallest blocking pair count.
func minBlockingPairs(in *api.Instance) int {
	var units []int
	for k := 0; k < in.Couples; k++ {
		units = append(units, 2*k)
	}
	for r := 2 * in.Couples; r < in.Residents; r++ {
		units = append(units, r)
	}

	positions := make([]int, in.Residents)
	load := make([]int, in.Hospitals)
	best := math.MaxInt
	var walk func(i int)
	walk = func(i int) {
		if i == len(units) {
			best = min(best, BlockingPairs(in, positions))
			return
		}
		u := units[i]
		members := []int{u}
		if u < 2*in.Couples {
			members = append(members, u+1)
		}
		for _, r := range members {
			positions[r] = -1
		}
		walk(i + 1)
		for j := range in.ResidentPrefs[u] {
			fits := true
			for _, r := range members {
				load[in.ResidentPrefs[r][j]]++
			}
			for _, r := range members {
				if h := in.ResidentPrefs[r][j]; load[h] > in.Capacities[h] {
					fits = false
				}
			}
			if fits {
				for _, r := range members {
					positions[r] = j
				}
				walk(i + 1)
			}
			for _, r := range members {
				load[in.ResidentPrefs[r][j]]--
				positions[r] = -1
			}
		}
	}
	walk(0)
	return best
}

func withinCapacities(in *api.Instance, assignment []int) bool {
	load := make([]int, in.Hospitals)
	for _, h := range assignment {
		if h >= 0 {
			load[h]++
		}
	}
	for h, l := range load {
		if l > in.Capacities[h] {
			return false
		}
	}
	return true
}
