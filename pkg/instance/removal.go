package instance

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// RemoveResidentFromHospital removes the pair (h, r) from both sides. For a
// couple member every joint choice in which r names h is dropped from both
// partners' lists, and the partner is detached from each hospital it no longer
// names.
func (m *Model) RemoveResidentFromHospital(h, r int, onDetach DetachFunc) error {
	if !slices.Contains(m.rpref[r], h) || !slices.Contains(m.hpref[h], r) {
		return fmt.Errorf("removing resident %d from hospital %d: %w", r, h, ErrInvariantViolation)
	}
	if m.IsSingle(r) {
		m.rpref[r] = slices.DeleteFunc(m.rpref[r], func(hosp int) bool { return hosp == h })
		return m.unlink(h, r, onDetach)
	}

	c, err := m.CoupleOf(r)
	if err != nil {
		return err
	}
	partner := c.Partner(r)
	before := slices.Clone(m.rpref[partner])
	var keepR, keepP []int
	for j, hosp := range m.rpref[r] {
		if hosp == h {
			continue
		}
		keepR = append(keepR, hosp)
		keepP = append(keepP, m.rpref[partner][j])
	}
	m.rpref[r] = keepR
	m.rpref[partner] = keepP

	if err := m.unlink(h, r, onDetach); err != nil {
		return err
	}
	return m.detachOrphans(partner, before, onDetach)
}

// TruncateResident keeps the first n entries of single resident r's list.
func (m *Model) TruncateResident(r, n int, onDetach DetachFunc) error {
	if !m.IsSingle(r) {
		return fmt.Errorf("truncating couple member %d on its own: %w", r, ErrInvariantViolation)
	}
	return m.truncate(r, n, onDetach)
}

// TruncateCouple keeps the first n joint choices of c, lower id first.
func (m *Model) TruncateCouple(c Couple, n int, onDetach DetachFunc) error {
	for _, r := range c.Members() {
		if err := m.truncate(r, n, onDetach); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) truncate(r, n int, onDetach DetachFunc) error {
	if n >= len(m.rpref[r]) {
		return nil
	}
	before := m.rpref[r]
	m.rpref[r] = slices.Clone(before[:n])
	return m.detachOrphans(r, before, onDetach)
}

// TruncateHospital keeps the first n entries of h's list. Every resident after
// position n-1 is removed through RemoveResidentFromHospital, so partners of
// removed couple members may leave the retained prefix as well.
func (m *Model) TruncateHospital(h, n int, onDetach DetachFunc) error {
	if n >= len(m.hpref[h]) {
		return nil
	}
	tail := slices.Clone(m.hpref[h][n:])
	for _, r := range tail {
		if !slices.Contains(m.hpref[h], r) {
			// already left together with its partner
			continue
		}
		if err := m.RemoveResidentFromHospital(h, r, onDetach); err != nil {
			return err
		}
	}
	return nil
}

// detachOrphans removes r from every hospital that appeared in before but is
// no longer on r's list.
func (m *Model) detachOrphans(r int, before []int, onDetach DetachFunc) error {
	seen := map[int]struct{}{}
	for _, h := range before {
		if _, done := seen[h]; done {
			continue
		}
		seen[h] = struct{}{}
		if slices.Contains(m.rpref[r], h) {
			continue
		}
		if err := m.unlink(h, r, onDetach); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) unlink(h, r int, onDetach DetachFunc) error {
	i := slices.Index(m.hpref[h], r)
	if i < 0 {
		return fmt.Errorf("hospital %d does not rank resident %d: %w", h, r, ErrInvariantViolation)
	}
	m.hpref[h] = slices.Delete(m.hpref[h], i, i+1)
	if onDetach != nil {
		onDetach(h, r)
	}
	return nil
}
