package instance

import "github.com/hrctools/hrcpresolve/pkg/api"

// newInstance builds a consistent instance from resident lists. Hospital lists
// rank residents in the order given by hospitalOrder, or by resident id.
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

func mustModel(in *api.Instance) *Model {
	m, err := New(in)
	if err != nil {
		panic(err)
	}
	return m
}

type detachLog [][2]int

func (l *detachLog) record(h, r int) {
	*l = append(*l, [2]int{h, r})
}
