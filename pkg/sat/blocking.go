package sat

import (
	"github.com/hrctools/hrcpresolve/pkg/api"
	"golang.org/x/exp/slices"
)

// BlockingPairs counts the blocking pairs of a matching given as list
// positions per resident (-1 for unassigned, couple members share a
// position). It applies the same definition the encoding uses:
//   - a single blocks with every hospital it prefers to its assignment and
//     which has fewer residents ranked above it than seats;
//   - a couple blocks with every joint choice it prefers whose hospitals would
//     both take their member. Other residents ranked above a member count
//     against it, the couple itself does not. A shared hospital must have room
//     for both members, judged from the worse ranked one.
func BlockingPairs(in *api.Instance, positions []int) int {
	rank := make([]map[int]int, in.Hospitals)
	for h, prefs := range in.HospitalPrefs {
		rank[h] = map[int]int{}
		for i, r := range prefs {
			rank[h][r] = i
		}
	}
	seated := make([][]int, in.Hospitals)
	for r, pos := range positions {
		if pos >= 0 {
			h := in.ResidentPrefs[r][pos]
			seated[h] = append(seated[h], r)
		}
	}
	above := func(h, r int, exclude ...int) int {
		n := 0
		for _, other := range seated[h] {
			if rank[h][other] < rank[h][r] && other != r && !slices.Contains(exclude, other) {
				n++
			}
		}
		return n
	}

	count := 0
	for r := 2 * in.Couples; r < in.Residents; r++ {
		for j, h := range in.ResidentPrefs[r] {
			if positions[r] >= 0 && positions[r] <= j {
				break
			}
			if above(h, r) < in.Capacities[h] {
				count++
			}
		}
	}
	for k := 0; k < in.Couples; k++ {
		r1, r2 := 2*k, 2*k+1
		for j := range in.ResidentPrefs[r1] {
			if positions[r1] >= 0 && positions[r1] <= j {
				break
			}
			h1, h2 := in.ResidentPrefs[r1][j], in.ResidentPrefs[r2][j]
			if h1 == h2 {
				worse := r1
				if rank[h1][r2] > rank[h1][r1] {
					worse = r2
				}
				if above(h1, worse, r1, r2) < in.Capacities[h1]-1 {
					count++
				}
				continue
			}
			if above(h1, r1, r2) < in.Capacities[h1] && above(h2, r2, r1) < in.Capacities[h2] {
				count++
			}
		}
	}
	return count
}
