package instance

import "fmt"

// Couple pairs the two residents 2k and 2k+1 which choose hospitals jointly.
type Couple struct {
	First  int
	Second int
}

func (c Couple) String() string {
	return fmt.Sprintf("(%d,%d)", c.First, c.Second)
}

// Members returns both residents, lower id first.
func (c Couple) Members() [2]int {
	return [2]int{c.First, c.Second}
}

func (c Couple) Partner(r int) int {
	if r == c.First {
		return c.Second
	}
	return c.First
}

func (m *Model) IsSingle(r int) bool {
	return r >= 2*m.ncoup
}

// CoupleOf returns the couple resident r belongs to.
func (m *Model) CoupleOf(r int) (Couple, error) {
	if r < 0 || r >= m.nres {
		return Couple{}, fmt.Errorf("resident %d out of range: %w", r, ErrInvalidPartner)
	}
	if m.IsSingle(r) {
		return Couple{}, fmt.Errorf("resident %d: %w", r, ErrInvalidPartner)
	}
	first := r - r%2
	return Couple{First: first, Second: first + 1}, nil
}

func (m *Model) PartnerOf(r int) (int, error) {
	c, err := m.CoupleOf(r)
	if err != nil {
		return -1, err
	}
	return c.Partner(r), nil
}

// Representative returns the resident the worklist processes for r: the lower
// id for couple members, r itself for singles.
func (m *Model) Representative(r int) int {
	if m.IsSingle(r) {
		return r
	}
	return r - r%2
}

func (m *Model) Couples() []Couple {
	couples := make([]Couple, 0, m.ncoup)
	for k := 0; k < m.ncoup; k++ {
		couples = append(couples, Couple{First: 2 * k, Second: 2*k + 1})
	}
	return couples
}

func (m *Model) Singles() []int {
	singles := make([]int, 0, m.nres-2*m.ncoup)
	for r := 2 * m.ncoup; r < m.nres; r++ {
		singles = append(singles, r)
	}
	return singles
}

// JointLen returns the number of joint choices of c.
func (m *Model) JointLen(c Couple) int {
	return min(len(m.rpref[c.First]), len(m.rpref[c.Second]))
}

// JointChoice returns the hospitals both members name at joint position j.
func (m *Model) JointChoice(c Couple, j int) (h1, h2 int) {
	return m.rpref[c.First][j], m.rpref[c.Second][j]
}
