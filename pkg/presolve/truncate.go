package presolve

// truncateHospitals runs one scan over all hospitals and reports whether any
// list was truncated.
func (e *engine) truncateHospitals() (bool, error) {
	truncated := false
	for h := 0; h < e.m.Hospitals(); h++ {
		changed, err := e.truncateHospital(h)
		if err != nil {
			return false, err
		}
		truncated = truncated || changed
	}
	return truncated, nil
}

// truncateHospital looks for a prefix of h's list containing Capacity(h)+MaxBP
// residents which rank h first. At most Capacity(h) of them can be matched to
// h, every other one forms a blocking pair with h as soon as anybody further
// down the list takes a seat. The tail after that prefix is removed.
func (e *engine) truncateHospital(h int) (bool, error) {
	prefs := e.m.HospitalPrefs(h)
	threshold := e.m.Capacity(h) + e.opts.MaxBP
	count := 0
	for j := 0; j < len(prefs)-1; j++ {
		first, err := e.ranksFirst(prefs[j], h)
		if err != nil {
			return false, err
		}
		if first {
			count++
		}
		if count == threshold {
			e.record(Decision{Pass: PassTruncation, Resident: -1, Hospital: h, Position: j, Count: count, Threshold: threshold})
			e.stats.TruncatedLists++
			return true, e.m.TruncateHospital(h, j+1, e.countRemoval)
		}
	}
	return false, nil
}

// ranksFirst reports whether r counts towards the first-choice residents of h.
// A couple member only counts when its partner's first choice is another
// hospital which has the partner within capacity, so that the couple's first
// joint choice blocks whenever r does not get h.
func (e *engine) ranksFirst(r, h int) (bool, error) {
	if first, ok := e.m.FirstChoice(r); !ok || first != h {
		return false, nil
	}
	if e.m.IsSingle(r) {
		return true, nil
	}

	partner, err := e.m.PartnerOf(r)
	if err != nil {
		return false, err
	}
	// aligned lists, so the partner has a first choice as well
	partnerFirst, _ := e.m.FirstChoice(partner)
	if partnerFirst == h {
		return false, nil
	}
	return e.m.WithinCapacity(partnerFirst, partner)
}

func (e *engine) countRemoval(_, _ int) {
	e.stats.RemovedEdges++
}
