package wallpaper

// Listener receives raw events from a native event source.
// Method names and arities follow the native bridge contract.
type Listener interface {
	VisibilityChanged(visible bool)
	IsPreviewChanged(preview bool)
	DesiredSizeChanged(width, height int)
	OffsetsChanged(xOffset, yOffset, xOffsetStep, yOffsetStep float64, xPixelOffset, yPixelOffset int)
	PreferenceChanged(key string)
	PreferencesActivityTriggered()
	MultiTapDetected(x, y float64)
	CustomEventReceived(eventName, eventData string)
}

// Source is a native event source.
// DispatchEvents delivers every pending event synchronously on the calling
// goroutine and is only ever called from the hub's goroutine.
type Source interface {
	Register(l Listener)
	DispatchEvents()
}

// Surface reports the size of the host render surface. It is only available when
// there is no native event source, e.g. in a desktop or terminal preview.
type Surface interface {
	Size() Size
}

// SurfaceFunc adapts a function to the Surface interface
type SurfaceFunc func() Size

// Size implements Surface
func (f SurfaceFunc) Size() Size {
	return f()
}
