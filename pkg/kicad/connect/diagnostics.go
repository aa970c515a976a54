package connect

import "fmt"

// DiagnosticKind classifies non-fatal problems found during resolution.
type DiagnosticKind string

const (
	// DiagUnresolvedPin marks a pin excluded from the graph because its
	// symbol definition could not be found.
	DiagUnresolvedPin DiagnosticKind = "unresolved-pin"

	// DiagBadRotation marks a pin excluded because its symbol instance
	// carries a rotation angle outside the four canonical values.
	DiagBadRotation DiagnosticKind = "bad-rotation"

	// DiagNameConflict marks a net where two differently-named labels
	// merged onto the same root; the first label in input order wins.
	DiagNameConflict DiagnosticKind = "name-conflict"
)

// Diagnostic is a non-fatal finding attached to a resolution result.
// A single bad element never aborts the pass; it is degraded, recorded
// here, and resolution continues.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Reference string         `json:"reference,omitempty"` // Offending component reference, if any
	Pin       string         `json:"pin,omitempty"` // Offending pin number, if any
	Detail    string         `json:"detail"`
}

func (d Diagnostic) String() string {
	if d.Reference != "" {
		if d.Pin != "" {
			return fmt.Sprintf("%s %s pin %s: %s", d.Kind, d.Reference, d.Pin, d.Detail)
		}
		return fmt.Sprintf("%s %s: %s", d.Kind, d.Reference, d.Detail)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}
