package wallpaper

import "time"

// SetOffsetFunc publishes a synthetic offset. It bypasses emulator postprocessing
// and must be called from the hub's goroutine.
type SetOffsetFunc func(state OffsetState)

// Emulator synthesizes or rewrites wallpaper offsets for launchers that report
// them incorrectly or not at all. At most one emulator is active on a hub.
type Emulator interface {
	// OffsetReportingWorks reports whether the current launcher sends usable offsets
	OffsetReportingWorks() bool

	// OnRegister is called once the emulator became the active one
	OnRegister(setOffset SetOffsetFunc)

	// OnUnregister is called when the emulator stops being the active one, before
	// any replacement is registered. Pushes made afterwards are ignored.
	OnUnregister()

	// UpdateState is called once per hub tick
	UpdateState(dt time.Duration)

	// HandleOffsetChange may rewrite an incoming offset before it is committed
	HandleOffsetChange(state *OffsetState)
}
