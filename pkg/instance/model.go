package instance

import (
	"fmt"

	"github.com/hrctools/hrcpresolve/pkg/api"
	"golang.org/x/exp/slices"
)

// DetachFunc is called after resident r was removed from hospital h's list.
// When it runs, h's list is final for that removal; other lists may still be
// pending.
type DetachFunc func(h, r int)

// Model owns the preference lists of an instance. All list mutations go
// through the removal primitives below so that r appears on h's list if and
// only if h appears on r's list.
type Model struct {
	nres  int
	nhosp int
	ncoup int
	npost int

	rpref [][]int
	hpref [][]int
	cap   []int
}

// New copies and validates the given instance.
func New(in *api.Instance) (*Model, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	m := &Model{
		nres:  in.Residents,
		nhosp: in.Hospitals,
		ncoup: in.Couples,
		npost: in.Posts,
		rpref: make([][]int, in.Residents),
		hpref: make([][]int, in.Hospitals),
		cap:   slices.Clone(in.Capacities),
	}
	for r, prefs := range in.ResidentPrefs {
		m.rpref[r] = slices.Clone(prefs)
	}
	for h, prefs := range in.HospitalPrefs {
		m.hpref[h] = slices.Clone(prefs)
	}
	if err := m.CheckConsistency(); err != nil {
		return nil, err
	}
	return m, nil
}

func validate(in *api.Instance) error {
	if in.Residents < 0 || in.Hospitals < 0 || in.Couples < 0 {
		return fmt.Errorf("negative instance dimensions (nres=%d, nhosp=%d, ncoup=%d): %w", in.Residents, in.Hospitals, in.Couples, ErrInvariantViolation)
	}
	if 2*in.Couples > in.Residents {
		return fmt.Errorf("%d couples do not fit into %d residents: %w", in.Couples, in.Residents, ErrInvariantViolation)
	}
	if len(in.ResidentPrefs) != in.Residents {
		return fmt.Errorf("expected %d resident lists, got %d: %w", in.Residents, len(in.ResidentPrefs), ErrInvariantViolation)
	}
	if len(in.HospitalPrefs) != in.Hospitals || len(in.Capacities) != in.Hospitals {
		return fmt.Errorf("expected %d hospital lists and capacities, got %d and %d: %w", in.Hospitals, len(in.HospitalPrefs), len(in.Capacities), ErrInvariantViolation)
	}
	for r, prefs := range in.ResidentPrefs {
		for _, h := range prefs {
			if h < 0 || h >= in.Hospitals {
				return fmt.Errorf("resident %d ranks unknown hospital %d: %w", r, h, ErrInvariantViolation)
			}
		}
		if r >= 2*in.Couples {
			if hasDuplicates(prefs) {
				return fmt.Errorf("single resident %d ranks a hospital twice: %w", r, ErrInvariantViolation)
			}
		} else if r%2 == 0 && len(prefs) != len(in.ResidentPrefs[r+1]) {
			return fmt.Errorf("couple (%d,%d) has lists of length %d and %d: %w", r, r+1, len(prefs), len(in.ResidentPrefs[r+1]), ErrInvariantViolation)
		}
	}
	for h, prefs := range in.HospitalPrefs {
		if in.Capacities[h] <= 0 {
			return fmt.Errorf("hospital %d has non-positive capacity %d: %w", h, in.Capacities[h], ErrInvariantViolation)
		}
		for _, r := range prefs {
			if r < 0 || r >= in.Residents {
				return fmt.Errorf("hospital %d ranks unknown resident %d: %w", h, r, ErrInvariantViolation)
			}
		}
		if hasDuplicates(prefs) {
			return fmt.Errorf("hospital %d ranks a resident twice: %w", h, ErrInvariantViolation)
		}
	}
	return nil
}

func hasDuplicates(list []int) bool {
	seen := make(map[int]struct{}, len(list))
	for _, x := range list {
		if _, exists := seen[x]; exists {
			return true
		}
		seen[x] = struct{}{}
	}
	return false
}

// CheckConsistency verifies that both sides of every preference relation agree.
func (m *Model) CheckConsistency() error {
	for r, prefs := range m.rpref {
		for _, h := range prefs {
			if !slices.Contains(m.hpref[h], r) {
				return fmt.Errorf("resident %d ranks hospital %d which does not rank it: %w", r, h, ErrInvariantViolation)
			}
		}
	}
	for h, prefs := range m.hpref {
		for _, r := range prefs {
			if !slices.Contains(m.rpref[r], h) {
				return fmt.Errorf("hospital %d ranks resident %d which does not rank it: %w", h, r, ErrInvariantViolation)
			}
		}
	}
	for k := 0; k < m.ncoup; k++ {
		if len(m.rpref[2*k]) != len(m.rpref[2*k+1]) {
			return fmt.Errorf("couple (%d,%d) lists are misaligned: %w", 2*k, 2*k+1, ErrInvariantViolation)
		}
	}
	return nil
}

func (m *Model) Residents() int  { return m.nres }
func (m *Model) Hospitals() int  { return m.nhosp }
func (m *Model) NumCouples() int { return m.ncoup }

func (m *Model) Capacity(h int) int {
	return m.cap[h]
}

// ResidentPrefs returns a copy of r's list.
func (m *Model) ResidentPrefs(r int) []int {
	return slices.Clone(m.rpref[r])
}

// HospitalPrefs returns a copy of h's list.
func (m *Model) HospitalPrefs(h int) []int {
	return slices.Clone(m.hpref[h])
}

func (m *Model) ResidentListLen(r int) int { return len(m.rpref[r]) }
func (m *Model) HospitalListLen(h int) int { return len(m.hpref[h]) }

// FirstChoice returns r's most preferred hospital.
func (m *Model) FirstChoice(r int) (int, bool) {
	if len(m.rpref[r]) == 0 {
		return -1, false
	}
	return m.rpref[r][0], true
}

// RankOfResident returns the position of r on h's list.
func (m *Model) RankOfResident(h, r int) (int, error) {
	rank := slices.Index(m.hpref[h], r)
	if rank < 0 {
		return -1, fmt.Errorf("hospital %d, resident %d: %w", h, r, ErrNotRanked)
	}
	return rank, nil
}

// RanksOfHospital returns every position at which r names h. Couple members
// may name the same hospital at several joint positions.
func (m *Model) RanksOfHospital(r, h int) []int {
	var ranks []int
	for i, hosp := range m.rpref[r] {
		if hosp == h {
			ranks = append(ranks, i)
		}
	}
	return ranks
}

// WithinCapacity reports whether h ranks r among its first Capacity(h) residents.
func (m *Model) WithinCapacity(h, r int) (bool, error) {
	rank, err := m.RankOfResident(h, r)
	if err != nil {
		return false, err
	}
	return rank < m.cap[h], nil
}

// BoundaryResident returns the resident sitting at position Capacity(h)-1 of h's list.
func (m *Model) BoundaryResident(h int) (int, bool) {
	if len(m.hpref[h]) < m.cap[h] {
		return -1, false
	}
	return m.hpref[h][m.cap[h]-1], true
}

// Export returns a copy of the current state in its parsed form.
func (m *Model) Export() *api.Instance {
	out := &api.Instance{
		Residents:     m.nres,
		Hospitals:     m.nhosp,
		Couples:       m.ncoup,
		Posts:         m.npost,
		ResidentPrefs: make([][]int, m.nres),
		HospitalPrefs: make([][]int, m.nhosp),
		Capacities:    slices.Clone(m.cap),
	}
	// emptied lists are exported as [] rather than null
	for r := range m.rpref {
		out.ResidentPrefs[r] = append([]int{}, m.rpref[r]...)
	}
	for h := range m.hpref {
		out.HospitalPrefs[h] = append([]int{}, m.hpref[h]...)
	}
	return out
}
