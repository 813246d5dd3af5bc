package sample

// Kind is the type of a touch transition.
type Kind int

const (
	Down Kind = iota // first pressed pass
	Move             // subsequent pressed pass
	Up               // first released pass after a press
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "unknown"
}

// Event is a touch transition.
type Event struct {
	Kind  Kind
	Touch Touch
}

// NewEdgeDetector creates a stage that turns a Touch stream into Down, Move
// and Up events. Released passes between touches are dropped. An Up carries
// the release timestamp and the last pressed position; it is also emitted
// when the input closes during a touch.
func NewEdgeDetector(bufSize int) func(in <-chan Touch) <-chan Event {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	return func(in <-chan Touch) <-chan Event {
		out := make(chan Event, bufSize)

		go func() {
			defer close(out)

			var last Touch
			down := false
			for t := range in {
				switch {
				case t.Pressed && !down:
					down = true
					out <- Event{Kind: Down, Touch: t}
				case t.Pressed:
					out <- Event{Kind: Move, Touch: t}
				case down:
					down = false
					up := last
					up.Timestamp = t.Timestamp
					up.Pressed = false
					out <- Event{Kind: Up, Touch: up}
				}
				if t.Pressed {
					last = t
				}
			}

			if down {
				last.Pressed = false
				out <- Event{Kind: Up, Touch: last}
			}
		}()

		return out
	}
}
