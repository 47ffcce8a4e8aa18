// Package wallpaper holds the live wallpaper state and dispatches launcher events
// to subscribers.
//
// A Hub is driven from a single goroutine and does no locking of its own. Events
// produced elsewhere reach it through a Source such as DeferredQueue, which the hub
// flushes at the start of every Tick.
package wallpaper

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/wallhub/internal/logger"
)

// Hub is the single holder of wallpaper state
type Hub struct {
	log     *log.Logger
	surface Surface
	source  Source

	visible     bool
	preview     bool
	desiredSize Size
	offset      OffsetState

	emulator           Emulator
	emulatorGeneration uint64

	// pixelSeeded is set once the initial pixel offset came from a real surface
	// width or an offset was committed
	pixelSeeded bool

	taps *MultiTapDetector

	visibilityChanged            signal[bool]
	previewChanged               signal[bool]
	desiredSizeChanged           signal[Size]
	offsetsChanged               signal[OffsetState]
	preferenceChanged            signal[string]
	preferencesActivityTriggered signal[struct{}]
	multiTapDetected             signal[Vector2]
	customEventReceived          signal[CustomEvent]
}

// NewHub creates a hub. A nil surface means a native event source drives the hub;
// a non-nil surface enables the fallback emulation run by Tick.
func NewHub(surface Surface) *Hub {
	h := &Hub{
		log:     logger.WithPrefix("wallpaper"),
		surface: surface,
		offset:  DefaultOffsetState(),
		taps:    NewMultiTapDetector(),
	}

	if surface != nil {
		// A preview is always on screen
		h.visible = true
		h.seedPixelOffset(surface.Size())
	}

	return h
}

// SetLogger replaces the hub logger
func (h *Hub) SetLogger(l *log.Logger) {
	if l != nil {
		h.log = l
	}
}

// Simulated reports whether the hub runs without a native event source
func (h *Hub) Simulated() bool {
	return h.surface != nil
}

// AttachSource registers the hub as the listener of a native event source
func (h *Hub) AttachSource(src Source) {
	h.source = src
	if src != nil {
		src.Register(h)
	}
}

// IsVisible reports whether the wallpaper is currently shown
func (h *Hub) IsVisible() bool {
	return h.visible
}

// IsPreview reports whether the wallpaper is shown in a preview/chooser context
func (h *Hub) IsPreview() bool {
	return h.preview
}

// DesiredSize returns the size the host wants the render surface to be
func (h *Hub) DesiredSize() Size {
	return h.desiredSize
}

// Offset returns the last committed offset state
func (h *Hub) Offset() OffsetState {
	return h.offset
}

// Taps returns the hub's multi-tap detector
func (h *Hub) Taps() *MultiTapDetector {
	return h.taps
}

// SetNumberOfTaps configures the multi-tap detector, see MultiTapDetector
func (h *Hub) SetNumberOfTaps(n int) error {
	return h.taps.SetNumberOfTaps(n)
}

// SetMaxTimeBetweenTaps configures the multi-tap detector, see MultiTapDetector
func (h *Hub) SetMaxTimeBetweenTaps(d time.Duration) error {
	return h.taps.SetMaxTimeBetweenTaps(d)
}

// SetTapZoneRadiusRelative configures the multi-tap detector, see MultiTapDetector
func (h *Hub) SetTapZoneRadiusRelative(r float64) error {
	return h.taps.SetTapZoneRadiusRelative(r)
}

// SetVisibility updates visibility and notifies subscribers
func (h *Hub) SetVisibility(visible bool) {
	h.visible = visible
	h.visibilityChanged.emit(visible)
}

// SetPreviewMode updates the preview flag and notifies subscribers
func (h *Hub) SetPreviewMode(preview bool) {
	h.preview = preview
	h.previewChanged.emit(preview)
}

// SetDesiredSize updates the desired surface size and notifies subscribers.
// Sizes come from a trusted source and are not validated.
func (h *Hub) SetDesiredSize(width, height int) {
	h.desiredSize = Size{Width: width, Height: height}
	h.desiredSizeChanged.emit(h.desiredSize)
}

// SetOffset commits a new offset state, after the active emulator had a chance to
// rewrite it, and notifies subscribers with the committed values.
func (h *Hub) SetOffset(offset, offsetStep Vector2, pixelOffset Point) {
	state := OffsetState{
		Offset:      offset,
		OffsetStep:  offsetStep,
		PixelOffset: pixelOffset,
	}

	if h.emulator != nil {
		h.emulator.HandleOffsetChange(&state)
	}

	h.commitOffset(state)
}

func (h *Hub) commitOffset(state OffsetState) {
	h.pixelSeeded = true
	h.offset = state.normalized()
	h.offsetsChanged.emit(h.offset)
}

// Emulator returns the active emulator, or nil
func (h *Hub) Emulator() Emulator {
	return h.emulator
}

// RegisterEmulator makes e the active emulator. Any previous emulator is
// unregistered first. Registering the active emulator again does nothing and a
// nil emulator only unregisters the current one.
//
// Emulators are compared by identity, so implementations should be pointers.
func (h *Hub) RegisterEmulator(e Emulator) {
	if e == nil {
		h.UnregisterEmulator()
		return
	}

	if h.emulator == e {
		h.log.Debug("Emulator already registered", "emulator", fmt.Sprintf("%T", e))
		return
	}

	h.UnregisterEmulator()

	h.emulator = e
	h.emulatorGeneration++
	generation := h.emulatorGeneration

	h.log.Debug("Registering emulator",
		"emulator", fmt.Sprintf("%T", e),
		"offset_reporting_works", e.OffsetReportingWorks())

	e.OnRegister(func(state OffsetState) {
		if h.emulatorGeneration != generation {
			h.log.Debug("Ignoring offset from unregistered emulator")
			return
		}
		h.commitOffset(state)
	})
}

// UnregisterEmulator removes the active emulator, if any
func (h *Hub) UnregisterEmulator() {
	if h.emulator == nil {
		return
	}

	e := h.emulator
	h.emulator = nil
	h.emulatorGeneration++

	e.OnUnregister()
	h.log.Debug("Emulator unregistered", "emulator", fmt.Sprintf("%T", e))
}

// Tick advances the hub by one host frame: pending native events are delivered,
// the fallback emulation runs when there is no native source, and the active
// emulator is updated.
func (h *Hub) Tick(dt time.Duration) {
	if h.source != nil {
		h.source.DispatchEvents()
	}

	if h.surface != nil {
		h.emulateSurface()
	}

	if h.emulator != nil {
		h.emulator.UpdateState(dt)
	}
}

// emulateSurface follows the surface size the way a launcher would report it
func (h *Hub) emulateSurface() {
	size := h.surface.Size()
	if size == h.desiredSize {
		return
	}

	h.log.Debug("Surface size changed", "width", size.Width, "height", size.Height)
	h.seedPixelOffset(size)
	h.SetDesiredSize(size.Width, size.Height)
}

// seedPixelOffset centers the initial pixel offset on the first known surface
// width. Terminal surfaces report 0x0 until the first resize.
func (h *Hub) seedPixelOffset(size Size) {
	if h.pixelSeeded || size.Width <= 0 {
		return
	}
	h.offset.PixelOffset = Point{X: -size.Width / 2}
	h.pixelSeeded = true
}

// DetectMultiTap feeds one tap-down into the multi-tap detector and notifies
// subscribers when it completes a sequence. Call it once per tap, not per frame.
func (h *Hub) DetectMultiTap(pos Vector2, now time.Time) bool {
	screen := h.desiredSize
	if h.surface != nil {
		screen = h.surface.Size()
	}

	if !h.taps.Detect(pos, screen, now) {
		return false
	}

	h.log.Debug("Multi-tap detected", "x", pos.X, "y", pos.Y)
	h.multiTapDetected.emit(pos)
	return true
}

// Listener implementation, called by the native event source

func (h *Hub) VisibilityChanged(visible bool) {
	h.SetVisibility(visible)
}

func (h *Hub) IsPreviewChanged(preview bool) {
	h.SetPreviewMode(preview)
}

func (h *Hub) DesiredSizeChanged(width, height int) {
	h.SetDesiredSize(width, height)
}

func (h *Hub) OffsetsChanged(xOffset, yOffset, xOffsetStep, yOffsetStep float64, xPixelOffset, yPixelOffset int) {
	h.SetOffset(
		Vector2{X: xOffset, Y: yOffset},
		Vector2{X: xOffsetStep, Y: yOffsetStep},
		Point{X: xPixelOffset, Y: yPixelOffset},
	)
}

func (h *Hub) PreferenceChanged(key string) {
	h.preferenceChanged.emit(key)
}

func (h *Hub) PreferencesActivityTriggered() {
	h.preferencesActivityTriggered.emit(struct{}{})
}

// MultiTapDetected forwards a detection made by the native side
func (h *Hub) MultiTapDetected(x, y float64) {
	h.multiTapDetected.emit(Vector2{X: x, Y: y})
}

func (h *Hub) CustomEventReceived(eventName, eventData string) {
	h.customEventReceived.emit(CustomEvent{Name: eventName, Data: eventData})
}

// Subscriptions. Each returns a function that removes the handler again.

func (h *Hub) OnVisibilityChanged(fn func(visible bool)) func() {
	return h.visibilityChanged.subscribe(fn)
}

func (h *Hub) OnPreviewChanged(fn func(preview bool)) func() {
	return h.previewChanged.subscribe(fn)
}

func (h *Hub) OnDesiredSizeChanged(fn func(size Size)) func() {
	return h.desiredSizeChanged.subscribe(fn)
}

func (h *Hub) OnOffsetsChanged(fn func(state OffsetState)) func() {
	return h.offsetsChanged.subscribe(fn)
}

func (h *Hub) OnPreferenceChanged(fn func(key string)) func() {
	return h.preferenceChanged.subscribe(fn)
}

func (h *Hub) OnPreferencesActivityTriggered(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return h.preferencesActivityTriggered.subscribe(func(struct{}) { fn() })
}

func (h *Hub) OnMultiTapDetected(fn func(pos Vector2)) func() {
	return h.multiTapDetected.subscribe(fn)
}

func (h *Hub) OnCustomEvent(fn func(ev CustomEvent)) func() {
	return h.customEventReceived.subscribe(fn)
}

var _ Listener = (*Hub)(nil)
var _ Listener = (*DeferredQueue)(nil)
var _ Source = (*DeferredQueue)(nil)
