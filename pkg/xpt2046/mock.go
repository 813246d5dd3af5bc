package xpt2046

import (
	"sync"

	"github.com/chewxy/math32"
)

// Mock simulates a touch panel for testing and development.
//
// Readings come from a script queue first; once it is empty the mock reports
// the current touch (with optional noise) or rail values when released.
type Mock struct {
	mu sync.Mutex

	noise int

	script []RawSample

	pressed bool
	touch   RawSample
	reads   int
}

// NewMock creates a released panel. noise is the peak deviation in ADC
// units added to a held touch.
func NewMock(noise int) *Mock {
	if noise < 0 {
		noise = 0
	}
	return &Mock{noise: noise}
}

// Script queues exact raw pairs. Each pair is returned by one X read followed
// by one Y read.
func (m *Mock) Script(samples ...RawSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, samples...)
}

// Press holds a touch at the given raw position.
func (m *Mock) Press(raw RawSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = true
	m.touch = raw
}

// Release lifts the simulated finger.
func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = false
}

// Reads returns the number of ADC reads served so far.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// ReadSample returns the next simulated conversion.
func (m *Mock) ReadSample(cmd byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++

	if len(m.script) > 0 {
		s := m.script[0]
		if cmd == CmdY {
			m.script = m.script[1:]
			return s.Y
		}
		return s.X
	}

	if !m.pressed {
		return RailLow
	}

	v := m.touch.X
	if cmd == CmdY {
		v = m.touch.Y
	}
	return m.jitter(v)
}

// InterruptLevel is low while touched.
func (m *Mock) InterruptLevel() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pressed {
		return 0
	}
	return 1
}

// jitter adds deterministic noise and keeps a held touch off the rails.
func (m *Mock) jitter(v int) int {
	if m.noise > 0 {
		k := float32(m.reads)
		n := (math32.Sin(k*0.7) + math32.Cos(k*1.3)) * 0.5 * float32(m.noise)
		v += int(n)
	}
	if v <= RailLow {
		v = RailLow + 1
	} else if v >= RailHigh {
		v = RailHigh - 1
	}
	return v
}
