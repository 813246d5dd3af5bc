package sample

import (
	"context"
	"log"
	"time"

	"github.com/itohio/goxpt/pkg/xpt2046"
)

// DefaultBufferSize is the default capacity of pipeline channels.
const DefaultBufferSize = 100

// Touch is the outcome of one sample pass.
type Touch struct {
	Timestamp time.Time
	Pressed   bool
	Raw       xpt2046.Position // filtered raw centroid
	X, Y      int              // mapped screen coordinate
}

// Sampler is the part of xpt2046.Device used by the pipeline.
type Sampler interface {
	Sample()
	IsPressed() bool
	RawPosition() xpt2046.Position
	Position() xpt2046.Position
}

var _ Sampler = (*xpt2046.Device)(nil)

// Converter is a function type that transforms a Touch channel.
type Converter func(in <-chan Touch) <-chan Touch

// Poll samples s every interval and streams the results. The returned channel
// is closed when ctx is done; s must not be used by anyone else until then.
func Poll(ctx context.Context, s Sampler, interval time.Duration, bufSize int) <-chan Touch {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}

	out := make(chan Touch, bufSize)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sample()
				p := s.Position()
				t := Touch{
					Timestamp: now,
					Pressed:   s.IsPressed(),
					Raw:       s.RawPosition(),
					X:         p.X,
					Y:         p.Y,
				}

				select {
				case out <- t:
				case <-ctx.Done():
					return
				default:
					log.Printf("Touch channel full, dropping sample")
				}
			}
		}
	}()

	return out
}

// NewPressedFilter creates a converter that drops passes without a valid touch.
func NewPressedFilter(bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	return func(in <-chan Touch) <-chan Touch {
		out := make(chan Touch, bufSize)

		go func() {
			defer close(out)
			for t := range in {
				if t.Pressed {
					out <- t
				}
			}
		}()

		return out
	}
}
