package presolve

import (
	"github.com/hrctools/hrcpresolve/pkg/instance"
	"github.com/sirupsen/logrus"
)

type worklist struct {
	queue  []int
	queued []bool
}

func newWorklist(nres int) *worklist {
	return &worklist{queued: make([]bool, nres)}
}

func (w *worklist) push(r int) bool {
	if w.queued[r] {
		return false
	}
	w.queue = append(w.queue, r)
	w.queued[r] = true
	return true
}

func (w *worklist) pop() (int, bool) {
	if len(w.queue) == 0 {
		return -1, false
	}
	next := w.queue[0]
	w.queue = w.queue[1:]
	w.queued[next] = false
	return next, true
}

// propagate runs the worklist until no resident needs another look. Couples
// are always queued by their lower id.
func (e *engine) propagate() error {
	for _, c := range e.m.Couples() {
		e.work.push(c.First)
	}
	for _, r := range e.m.Singles() {
		e.work.push(r)
	}

	for {
		next, ok := e.work.pop()
		if !ok {
			return nil
		}
		e.stats.Pops++
		var err error
		if e.m.IsSingle(next) {
			err = e.trimSingle(next)
		} else {
			err = e.trimCouple(next)
		}
		if err != nil {
			return err
		}
	}
}

// trimSingle counts the positions at which r is within the hospital's
// capacity. Each of them is a blocking pair if r ends up further down its
// list, so once the count exceeds MaxBP everything after that point goes.
func (e *engine) trimSingle(r int) error {
	prefs := e.m.ResidentPrefs(r)
	count := 0
	for j := 0; j < len(prefs)-1; j++ {
		within, err := e.m.WithinCapacity(prefs[j], r)
		if err != nil {
			return err
		}
		if within {
			count++
		}
		if count > e.opts.MaxBP {
			e.record(Decision{Pass: PassWorklist, Resident: r, Hospital: -1, Position: j, Count: count, Threshold: e.opts.MaxBP})
			e.stats.TrimmedLists++
			return e.m.TruncateResident(r, j+1, e.requeueBoundary)
		}
	}
	return nil
}

func (e *engine) trimCouple(r int) error {
	c, err := e.m.CoupleOf(r)
	if err != nil {
		return err
	}
	n := e.m.JointLen(c)
	count := 0
	for j := 0; j < n-1; j++ {
		forced, err := e.forcedJointChoice(c, j)
		if err != nil {
			return err
		}
		if forced {
			count++
		}
		if count > e.opts.MaxBP {
			e.record(Decision{Pass: PassWorklist, Resident: c.First, Hospital: -1, Position: j, Count: count, Threshold: e.opts.MaxBP})
			e.stats.TrimmedLists++
			return e.m.TruncateCouple(c, j+1, e.requeueBoundary)
		}
	}
	return nil
}

// forcedJointChoice reports whether the couple's j-th joint choice becomes a
// blocking pair when the couple is matched further down. Both members have to
// be within capacity at their hospital, for a shared hospital as well as for
// two distinct ones.
func (e *engine) forcedJointChoice(c instance.Couple, j int) (bool, error) {
	h1, h2 := e.m.JointChoice(c, j)
	first, err := e.m.WithinCapacity(h1, c.First)
	if err != nil || !first {
		return false, err
	}
	return e.m.WithinCapacity(h2, c.Second)
}

// requeueBoundary runs after r left h's list. The resident which moved onto
// the capacity boundary of h is now within capacity and gets another look.
func (e *engine) requeueBoundary(h, r int) {
	e.stats.RemovedEdges++
	boundary, ok := e.m.BoundaryResident(h)
	if !ok {
		return
	}
	boundary = e.m.Representative(boundary)
	if e.work.push(boundary) {
		logrus.Debugf("hospital %d: resident %d moved to the capacity boundary, requeued", h, boundary)
	}
}
