package exchange

import "fmt"

// CapabilityError reports that the configured remote binding does not
// expose a capability the caller needs. The message names the missing
// capability so the operator can switch bindings without re-running in
// a debug mode.
type CapabilityError struct {
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("remote capability not available: %s", e.Capability)
}
