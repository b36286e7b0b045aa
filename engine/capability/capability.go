// Package capability decides whether the hover effect should run at all on this machine.
//
// The decision combines accessibility and hardware signals:
//   - a reduced-motion preference always disables the effect
//   - a data-saving preference, less than 4GB of memory, or 2 or fewer logical cores mark the
//     host as low performance
//
// A signal that could not be read never forces a fallback on its own.
package capability

// LowMemoryGB is the device memory below which a host is considered low performance.
const LowMemoryGB = 4.0

// LowCoreCount is the logical core count at or below which a host is considered low performance.
const LowCoreCount = 2

// Signals are the host-reported inputs to the fallback decision.
// Nil pointers mean the platform did not report the value.
type Signals struct {
	// ReducedMotion reports the user's reduced-motion accessibility preference.
	ReducedMotion bool

	// SaveData reports a data-saving preference.
	SaveData bool

	// DeviceMemoryGB is the total device memory in gigabytes.
	DeviceMemoryGB *float64

	// LogicalCores is the number of logical CPU cores.
	LogicalCores *int
}

// Gate answers the fallback questions for one set of Signals.
type Gate struct {
	signals Signals
}

// NewGate creates a Gate from the provided signals.
//
// Parameters:
//   - s: the host signals to decide on
//
// Returns:
//   - Gate: the decision gate
func NewGate(s Signals) Gate {
	return Gate{signals: s}
}

// Signals returns the inputs the gate decides on.
func (g Gate) Signals() Signals {
	return g.signals
}

// PrefersReducedMotion reports whether the user asked for reduced motion.
func (g Gate) PrefersReducedMotion() bool {
	return g.signals.ReducedMotion
}

// IsLowPerformance reports whether any hardware or network signal marks the host as low end.
// Each check triggers independently and absent signals are ignored.
func (g Gate) IsLowPerformance() bool {
	if g.signals.SaveData {
		return true
	}
	if m := g.signals.DeviceMemoryGB; m != nil && *m < LowMemoryGB {
		return true
	}
	if c := g.signals.LogicalCores; c != nil && *c <= LowCoreCount {
		return true
	}
	return false
}

// ShouldFallback reports whether the static presentation should replace the effect.
func (g Gate) ShouldFallback() bool {
	return g.PrefersReducedMotion() || g.IsLowPerformance()
}

// Reason returns a short label for the first fallback trigger, or an empty string when the
// effect may run. Used for logging.
func (g Gate) Reason() string {
	switch {
	case g.signals.ReducedMotion:
		return "reduced-motion"
	case g.signals.SaveData:
		return "save-data"
	case g.signals.DeviceMemoryGB != nil && *g.signals.DeviceMemoryGB < LowMemoryGB:
		return "low-memory"
	case g.signals.LogicalCores != nil && *g.signals.LogicalCores <= LowCoreCount:
		return "low-cores"
	}
	return ""
}
