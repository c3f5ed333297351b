// Package dzn writes presolved instances as MiniZinc data files. Hospital and
// resident ids are shifted to 1-based, 0 pads ragged rows.
package dzn

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hrctools/hrcpresolve/pkg/api"
)

type Writer struct {
	MaxBP int
	// Comments are written as % lines before the data.
	Comments []string
}

func (w *Writer) Write(out io.Writer, in *api.Instance) error {
	maxRpref := maxLen(in.ResidentPrefs)
	maxHpref := maxLen(in.HospitalPrefs)

	hrank := make([][]int, in.Hospitals)
	for h, prefs := range in.HospitalPrefs {
		hrank[h] = make([]int, in.Residents)
		for r := range hrank[h] {
			hrank[h][r] = -1
		}
		for i, r := range prefs {
			hrank[h][r] = i
		}
	}

	var b strings.Builder
	for _, c := range w.Comments {
		fmt.Fprintf(&b, "%% %s\n", c)
	}
	fmt.Fprintf(&b, "num_bp = %d;\n", w.MaxBP)
	fmt.Fprintf(&b, "nres = %d;\n", in.Residents)
	fmt.Fprintf(&b, "ncoup = %d;\n", in.Couples)
	fmt.Fprintf(&b, "nhosp = %d;\n", in.Hospitals)
	fmt.Fprintf(&b, "max_rpref_len = %d;\n", maxRpref)
	fmt.Fprintf(&b, "max_hpref_len = %d;\n", maxHpref)
	// one extra column so every resident row ends with a 0 sentinel
	fmt.Fprintf(&b, "rpref = [%s|];\n", paddedArray(in.ResidentPrefs, maxRpref+1, 1))
	fmt.Fprintf(&b, "rpref_len = [%s];\n", lengths(in.ResidentPrefs))
	fmt.Fprintf(&b, "hpref = [%s|];\n", paddedArray(in.HospitalPrefs, maxHpref, 1))
	fmt.Fprintf(&b, "hpref_len = [%s];\n", lengths(in.HospitalPrefs))
	fmt.Fprintf(&b, "hrank = [%s|];\n", paddedArray(hrank, in.Residents, 1))
	fmt.Fprintf(&b, "hosp_cap = [%s];\n", array(in.Capacities))

	_, err := io.WriteString(out, b.String())
	if err != nil {
		return fmt.Errorf("failed to write dzn data: %v", err)
	}
	return nil
}

func maxLen(lists [][]int) int {
	n := 0
	for _, l := range lists {
		n = max(n, len(l))
	}
	return n
}

func paddedArray(rows [][]int, rowLen int, add int) string {
	formatted := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, rowLen)
		for i := 0; i < rowLen; i++ {
			v := -1
			if i < len(row) {
				v = row[i]
			}
			cells = append(cells, strconv.Itoa(v+add))
		}
		formatted = append(formatted, "|"+strings.Join(cells, ","))
	}
	return strings.Join(formatted, "\n     ")
}

func lengths(lists [][]int) string {
	ls := make([]int, 0, len(lists))
	for _, l := range lists {
		ls = append(ls, len(l))
	}
	return array(ls)
}

func array(values []int) string {
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, strconv.Itoa(v))
	}
	return strings.Join(cells, ",")
}
