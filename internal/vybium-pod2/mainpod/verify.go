package mainpod

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/middleware"
)

// Failure is one violated condition. Slot is -1 for pod-wide conditions.
type Failure struct {
	Slot   int
	Reason string
}

func (f Failure) String() string {
	if f.Slot < 0 {
		return f.Reason
	}
	return fmt.Sprintf("slot %d: %s", f.Slot, f.Reason)
}

// Report collects every failed condition of a native check
type Report struct {
	Failures []Failure
}

// OK reports whether every condition held
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

func (r *Report) String() string {
	if r.OK() {
		return "ok"
	}
	parts := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

func (r *Report) fail(slot int, format string, args ...any) {
	r.Failures = append(r.Failures, Failure{Slot: slot, Reason: fmt.Sprintf(format, args...)})
}

// Verify runs the native check that mirrors the circuit constraints
func (p *MainPod) Verify() bool {
	report := p.Check()
	if !report.OK() {
		slog.Debug("main pod rejected", "id", core.FormatElement(p.ID), "failures", report.String())
	}
	return report.OK()
}

// Check runs every native condition and reports all that fail
func (p *MainPod) Check() *Report {
	r := &Report{}
	params := p.params

	if len(p.Statements) != params.TotalStatements() {
		r.fail(-1, "layout has %d slots, want %d", len(p.Statements), params.TotalStatements())
		return r
	}
	if len(p.Operations) != params.MaxStatements {
		r.fail(-1, "%d operations, want %d", len(p.Operations), params.MaxStatements)
		return r
	}
	if len(p.SignedPods) != params.MaxInputSignedPods {
		r.fail(-1, "%d input pods, want %d", len(p.SignedPods), params.MaxInputSignedPods)
		return r
	}

	p.checkInputPods(r)
	p.checkTypeStatement(r)
	p.checkValueOfUniqueness(r)
	p.checkOperations(r)

	if id := p.computeID(); !id.Equal(p.ID) {
		r.fail(-1, "id %s does not commit to the public statements", core.FormatElement(p.ID))
	}

	return r
}

// checkInputPods requires every input slot to be None or a ValueOf proven
// against its record, and every record to verify
func (p *MainPod) checkInputPods(r *Report) {
	params := p.params
	for i, pod := range p.SignedPods {
		if !pod.Verify() {
			r.fail(-1, "input signed pod %d does not verify", i)
			continue
		}
		start := params.OffsetInputSignedPods() + i*params.MaxSignedPodValues
		for j := 0; j < params.MaxSignedPodValues; j++ {
			slot := start + j
			st := p.Statements[slot]
			if st.IsNone() {
				continue
			}
			ak, v, ok := st.ValueOfParts()
			if !ok {
				r.fail(slot, "input slot holds %s, not ValueOf", st.Predicate)
				continue
			}
			if pod.IsNone() || !ak.PodID.Equal(pod.ID) {
				r.fail(slot, "ValueOf is not anchored at input pod %d", i)
				continue
			}
			proof, err := pod.Proof(ak.Key)
			if err != nil || !proof.Root.Equal(pod.ID) || !containers.VerifyEntry(proof, ak.Key, v) {
				r.fail(slot, "entry is not in input pod %d", i)
			}
		}
	}
}

func (p *MainPod) checkTypeStatement(r *Report) {
	slot := p.params.OffsetPublicStatements()
	if !p.Statements[slot].Equal(TypeStatement()) {
		r.fail(slot, "first public slot does not bind _type")
	}
}

// checkValueOfUniqueness requires distinct (pod, key) pairs across the
// input and private regions and the _type slot. The rest of the public
// region holds copies.
func (p *MainPod) checkValueOfUniqueness(r *Report) {
	end := p.params.OffsetPublicStatements() + 1
	var seen []middleware.AnchoredKey
	for slot := 0; slot < end; slot++ {
		ak, _, ok := p.Statements[slot].ValueOfParts()
		if !ok {
			continue
		}
		for _, prev := range seen {
			if prev.Equal(ak) {
				r.fail(slot, "duplicate ValueOf for %s", ak)
				break
			}
		}
		seen = append(seen, ak)
	}
}

// checkOperations requires every private and public slot to follow from
// strictly earlier slots by its operation
func (p *MainPod) checkOperations(r *Report) {
	offset := p.params.OffsetPrivateStatements()
	for i, op := range p.Operations {
		slot := offset + i
		for _, ref := range op.Args {
			if ref.Present && (ref.Index < 0 || ref.Index >= slot) {
				r.fail(slot, "%s refers to slot %d, not an earlier one", op.Kind, ref.Index)
			}
		}
		if !middleware.Check(op.Kind, op.Deref(p.Statements), p.Statements[slot]) {
			r.fail(slot, "%s does not justify %s", op.Kind, p.Statements[slot])
		}
	}
}
