package mainpod

import (
	"fmt"
	"strings"
)

// Describe renders the slot layout: region headers, then one line per slot
// with its statement predicate and, for justified slots, the operation and
// its references
func (p *MainPod) Describe() string {
	params := p.params
	var b strings.Builder

	fmt.Fprintf(&b, "main pod: %d slots, %d operations\n", len(p.Statements), len(p.Operations))

	privStart := params.OffsetPrivateStatements()
	pubStart := params.OffsetPublicStatements()

	for slot, st := range p.Statements {
		if slot < privStart && (slot-params.OffsetInputSignedPods())%params.MaxSignedPodValues == 0 {
			n := (slot - params.OffsetInputSignedPods()) / params.MaxSignedPodValues
			kind := "signed"
			if p.SignedPods[n].IsNone() {
				kind = "none"
			}
			fmt.Fprintf(&b, "input pod %d (%s)\n", n, kind)
		}
		if slot == privStart {
			b.WriteString("private\n")
		}
		if slot == pubStart {
			b.WriteString("public\n")
		}

		fmt.Fprintf(&b, "  %2d: %s", slot, st.Predicate)
		if slot >= privStart {
			op := p.Operations[slot-privStart]
			refs := make([]string, 0, len(op.Args))
			for _, ref := range op.Args {
				if ref.Present {
					refs = append(refs, fmt.Sprintf("%d", ref.Index))
				}
			}
			fmt.Fprintf(&b, " <- %s(%s)", op.Kind, strings.Join(refs, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
