package sat

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOPB writes the model in the OPB format of the pseudo-boolean
// competitions. Negated literals are rewritten into negative coefficients.
func (m *Model) WriteOPB(w io.Writer, comments ...string) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "* #variable= %d #constraint= %d\n", len(m.vars), len(m.constrs))
	for _, c := range comments {
		fmt.Fprintf(out, "* %s\n", c)
	}
	for _, c := range m.constrs {
		bound := c.AtLeast
		for i, lit := range c.Lits {
			weight := 1
			if c.Weights != nil {
				weight = c.Weights[i]
			}
			if lit < 0 {
				// w*~x == w - w*x
				fmt.Fprintf(out, "%+d x%d ", -weight, -lit)
				bound -= weight
			} else {
				fmt.Fprintf(out, "%+d x%d ", weight, lit)
			}
		}
		fmt.Fprintf(out, ">= %d ;\n", bound)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write opb model: %v", err)
	}
	return nil
}
