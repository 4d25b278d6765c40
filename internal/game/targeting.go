package game

// TargetingMode is the two-state union driving drag-to-target attachment:
// either idle, or targeting with a source card. The fields are unexported so
// an inactive mode can never carry a stale source id. The zero value is idle.
type TargetingMode struct {
	active   bool
	sourceID string
}

// Idle returns the idle targeting mode.
func Idle() TargetingMode {
	return TargetingMode{}
}

// Targeting returns an active targeting mode for the given source card.
func Targeting(sourceID string) TargetingMode {
	return TargetingMode{active: true, sourceID: sourceID}
}

// Active reports whether targeting is in progress.
func (m TargetingMode) Active() bool {
	return m.active
}

// Source returns the source card id and whether targeting is active.
func (m TargetingMode) Source() (string, bool) {
	return m.sourceID, m.active
}
