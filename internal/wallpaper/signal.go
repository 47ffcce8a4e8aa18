package wallpaper

// signal is a single notification channel with any number of subscribers.
// Emission iterates a snapshot, so handlers may subscribe or unsubscribe from
// within their own callback.
type signal[T any] struct {
	nextID   uint64
	handlers []handler[T]
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// subscribe adds fn and returns a function that removes it again.
// The returned function is safe to call more than once.
func (s *signal[T]) subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handler[T]{id: id, fn: fn})

	return func() {
		s.remove(id)
	}
}

func (s *signal[T]) remove(id uint64) {
	for i, h := range s.handlers {
		if h.id == id {
			// Full slice expression forces a copy so in-flight snapshots stay intact
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *signal[T]) emit(v T) {
	snapshot := s.handlers
	for _, h := range snapshot {
		h.fn(v)
	}
}

func (s *signal[T]) len() int {
	return len(s.handlers)
}
