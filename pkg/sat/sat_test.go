package sat

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/crillab/gophersat/solver"
	"github.com/hrctools/hrcpresolve/pkg/api"
	"github.com/hrctools/hrcpresolve/pkg/instance"
	"github.com/hrctools/hrcpresolve/pkg/presolve"
	. "github.com/onsi/gomega"
)

func twoResidentsOneSeat() *api.Instance {
	return &api.Instance{
		Residents:     2,
		Hospitals:     1,
		ResidentPrefs: [][]int{{0}, {0}},
		HospitalPrefs: [][]int{{0, 1}},
		Capacities:    []int{1},
	}
}

func TestSolveSeatsBetterResident(t *testing.T) {
	g := NewGomegaWithT(t)
	m, err := NewLoader().Load(twoResidentsOneSeat(), 0)
	g.Expect(err).ToNot(HaveOccurred())

	res, err := Solve(m)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(res.Feasible).To(BeTrue())
	g.Expect(res.Assignment).To(Equal([]int{0, -1}))
	g.Expect(res.Positions).To(Equal([]int{0, -1}))
	g.Expect(res.BlockingPairs).To(BeZero())
}

func TestLoadRejectsNegativeBudget(t *testing.T) {
	g := NewGomegaWithT(t)
	_, err := NewLoader().Load(twoResidentsOneSeat(), -1)
	g.Expect(err).To(HaveOccurred())
}

func TestSolveEmptyInstance(t *testing.T) {
	g := NewGomegaWithT(t)
	m, err := NewLoader().Load(&api.Instance{Residents: 1, ResidentPrefs: [][]int{{}}}, 0)
	g.Expect(err).ToNot(HaveOccurred())

	res, err := Solve(m)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(res.Feasible).To(BeTrue())
	g.Expect(res.Assignment).To(Equal([]int{-1}))
}

func TestBlockingPairs(t *testing.T) {
	g := NewGomegaWithT(t)
	in := twoResidentsOneSeat()

	g.Expect(BlockingPairs(in, []int{-1, -1})).To(Equal(2))
	g.Expect(BlockingPairs(in, []int{0, -1})).To(Equal(0))
	g.Expect(BlockingPairs(in, []int{-1, 0})).To(Equal(1))
}

func TestCoupleBlockingPairs(t *testing.T) {
	g := NewGomegaWithT(t)
	// couple (0,1) wants hospital 0 together first, then hospitals (1,1)
	in := &api.Instance{
		Residents:     2,
		Hospitals:     2,
		Couples:       1,
		ResidentPrefs: [][]int{{0, 1}, {0, 1}},
		HospitalPrefs: [][]int{{0, 1}, {1, 0}},
		Capacities:    []int{2, 1},
	}

	g.Expect(BlockingPairs(in, []int{0, 0})).To(Equal(0))
	// hospital 1 has a single seat, so the second joint choice never blocks
	g.Expect(BlockingPairs(in, []int{-1, -1})).To(Equal(1))
}

func TestSolverAgreesWithEnumeration(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 150; i++ {
		nres := 2 + rnd.Intn(4)
		in := randomInstance(rnd, nres, 1+rnd.Intn(3), rnd.Intn(nres/2+1), 3, 2)
		maxBP := rnd.Intn(2)
		t.Run(fmt.Sprintf("instance %d", i), func(t *testing.T) {
			g := NewGomegaWithT(t)
			m, err := NewLoader().Load(in, maxBP)
			g.Expect(err).ToNot(HaveOccurred())

			res, err := Solve(m)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(res.Feasible).To(Equal(minBlockingPairs(in) <= maxBP))
			if res.Feasible {
				g.Expect(withinCapacities(in, res.Assignment)).To(BeTrue())
			}
		})
	}
}

func TestOPBRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 30; i++ {
		in := randomInstance(rnd, 4, 2, 1, 3, 2)
		t.Run(fmt.Sprintf("instance %d", i), func(t *testing.T) {
			g := NewGomegaWithT(t)
			m, err := NewLoader().Load(in, 0)
			g.Expect(err).ToNot(HaveOccurred())

			var buf bytes.Buffer
			g.Expect(m.WriteOPB(&buf, "roundtrip")).To(Succeed())
			pb, err := solver.ParseOPB(&buf)
			g.Expect(err).ToNot(HaveOccurred())

			res, err := Solve(m)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(solver.New(pb).Solve() == solver.Sat).To(Equal(res.Feasible))
		})
	}
}

func TestPresolveKeepsSinglesFeasible(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		in := randomInstance(rnd, 2+rnd.Intn(5), 1+rnd.Intn(3), 0, 3, 2)
		maxBP := rnd.Intn(2)
		t.Run(fmt.Sprintf("instance %d", i), func(t *testing.T) {
			g := NewGomegaWithT(t)
			before, err := NewLoader().Load(in, maxBP)
			g.Expect(err).ToNot(HaveOccurred())
			resBefore, err := Solve(before)
			g.Expect(err).ToNot(HaveOccurred())

			model, err := instance.New(in)
			g.Expect(err).ToNot(HaveOccurred())
			_, err = presolve.Run(model, presolve.Options{MaxBP: maxBP})
			g.Expect(err).ToNot(HaveOccurred())

			after, err := NewLoader().Load(model.Export(), maxBP)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(after.Vars()).To(BeNumerically("<=", before.Vars()))
			resAfter, err := Solve(after)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(resAfter.Feasible).To(Equal(resBefore.Feasible))
		})
	}
}

// couple (0,1) with joint choices (0,1) and (2,3), single 2 ranked ahead of
// resident 1 at hospital 1
func coupleBehindSingle() *api.Instance {
	return &api.Instance{
		Residents:     3,
		Hospitals:     4,
		Couples:       1,
		ResidentPrefs: [][]int{{0, 2}, {1, 3}, {1}},
		HospitalPrefs: [][]int{{0}, {2, 1}, {0}, {1}},
		Capacities:    []int{1, 1, 1, 1},
	}
}

func TestRebaseMapsPositionsOntoInput(t *testing.T) {
	g := NewGomegaWithT(t)
	// solved on lists where the couple only kept its second joint choice
	res := &Result{Feasible: true, Assignment: []int{2, 3, 1}, Positions: []int{0, 0, 0}}

	rebased, err := Rebase(res, coupleBehindSingle())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(rebased.Positions).To(Equal([]int{1, 1, 0}))
	g.Expect(rebased.Assignment).To(Equal([]int{2, 3, 1}))
	g.Expect(rebased.BlockingPairs).To(BeZero())
}

func TestRebaseRecountsBlockingPairs(t *testing.T) {
	g := NewGomegaWithT(t)
	// no blocking pair on lists without the couple's choices, one on the input
	res := &Result{Feasible: true, Assignment: []int{-1, -1, 1}, Positions: []int{-1, -1, 0}}

	rebased, err := Rebase(res, coupleBehindSingle())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(rebased.Positions).To(Equal([]int{-1, -1, 0}))
	g.Expect(rebased.BlockingPairs).To(Equal(1))
}

func TestRebaseRejectsUnrankedHospital(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := Rebase(&Result{Assignment: []int{-1, -1, 0}}, coupleBehindSingle())
	g.Expect(err).To(MatchError(ContainSubstring("does not rank hospital 0")))
	_, err = Rebase(&Result{Assignment: []int{0, 3, -1}}, coupleBehindSingle())
	g.Expect(err).To(MatchError(ContainSubstring("does not rank hospitals (0,3)")))
}

func TestPresolveKeepsCouplesFeasible(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))
	for i := 0; i < 150; i++ {
		nres := 2 + rnd.Intn(4)
		in := randomInstance(rnd, nres, 1+rnd.Intn(4), 1+rnd.Intn(nres/2), 3, 2)
		maxBP := rnd.Intn(2)
		t.Run(fmt.Sprintf("instance %d", i), func(t *testing.T) {
			g := NewGomegaWithT(t)
			if minBlockingPairs(in) > maxBP {
				return
			}

			model, err := instance.New(in)
			g.Expect(err).ToNot(HaveOccurred())
			_, err = presolve.Run(model, presolve.Options{MaxBP: maxBP})
			g.Expect(err).ToNot(HaveOccurred())

			after, err := NewLoader().Load(model.Export(), maxBP)
			g.Expect(err).ToNot(HaveOccurred())
			res, err := Solve(after)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(res.Feasible).To(BeTrue())
		})
	}
}
