package api

// Instance is the parsed form of an HRC-MBP instance. Residents 2k and 2k+1
// for k < Couples form a couple, all residents from 2*Couples on are single.
type Instance struct {
	Residents     int     `json:"nres"`
	Hospitals     int     `json:"nhosp"`
	Couples       int     `json:"ncoup"`
	Posts         int     `json:"npost,omitempty"`
	ResidentPrefs [][]int `json:"rpref"`
	HospitalPrefs [][]int `json:"hpref"`
	Capacities    []int   `json:"hosp_cap"`
}

// Edges returns the total number of resident list entries.
func (i *Instance) Edges() (n int) {
	for _, prefs := range i.ResidentPrefs {
		n += len(prefs)
	}
	return n
}

// ListEntries returns the sum of all resident and hospital list lengths.
func (i *Instance) ListEntries() (n int) {
	n = i.Edges()
	for _, prefs := range i.HospitalPrefs {
		n += len(prefs)
	}
	return n
}
