package xpt2046

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePin struct {
	high bool
}

func (p *fakePin) High()     { p.high = true }
func (p *fakePin) Low()      { p.high = false }
func (p *fakePin) Get() bool { return p.high }

type fakeSPI struct {
	cs    *fakePin
	reply [3]byte
	err   error

	sent     [][]byte
	selected []bool
}

func (s *fakeSPI) Tx(w, r []byte) error {
	s.sent = append(s.sent, append([]byte(nil), w...))
	s.selected = append(s.selected, !s.cs.high)
	copy(r, s.reply[:])
	return s.err
}

func (s *fakeSPI) Transfer(b byte) (byte, error) {
	return 0, errors.New("not used")
}

func TestDecode12(t *testing.T) {
	tests := []struct {
		name   string
		hi, lo byte
		want   int
	}{
		{name: "zero", hi: 0x00, lo: 0x00, want: 0},
		{name: "full scale", hi: 0x7F, lo: 0xF8, want: 4095},
		{name: "mid scale", hi: 0x40, lo: 0x00, want: 2048},
		{name: "pad bits ignored", hi: 0x00, lo: 0x0F, want: 1},
		{name: "busy bit ignored", hi: 0x80, lo: 0x08, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode12(tt.hi, tt.lo))
		})
	}
}

func TestSPIBus_ReadSample(t *testing.T) {
	cs := &fakePin{}
	spi := &fakeSPI{cs: cs, reply: [3]byte{0x00, 0x40, 0x00}}
	bus := NewSPIBus(spi, cs, nil)
	assert.True(t, cs.high, "chip select is released after construction")

	got := bus.ReadSample(CmdX)

	assert.Equal(t, 2048, got)
	assert.Equal(t, [][]byte{{CmdX, 0x00, 0x00}}, spi.sent)
	assert.Equal(t, []bool{true}, spi.selected, "chip select is low during the transfer")
	assert.True(t, cs.high)
}

func TestSPIBus_ReadSampleError(t *testing.T) {
	cs := &fakePin{}
	spi := &fakeSPI{cs: cs, reply: [3]byte{0x00, 0x40, 0x00}, err: errors.New("bus fault")}
	bus := NewSPIBus(spi, cs, nil)

	assert.Equal(t, RailLow, bus.ReadSample(CmdY))
	assert.True(t, cs.high)
}

func TestSPIBus_InterruptLevel(t *testing.T) {
	cs := &fakePin{}
	irq := &fakePin{high: true}
	bus := NewSPIBus(&fakeSPI{cs: cs}, cs, irq)

	assert.Equal(t, 1, bus.InterruptLevel())
	irq.high = false
	assert.Equal(t, 0, bus.InterruptLevel())

	bus = NewSPIBus(&fakeSPI{cs: cs}, cs, nil)
	assert.Equal(t, 1, bus.InterruptLevel(), "unwired IRQ reads as released")
}

func TestDevice_OverSPI(t *testing.T) {
	cs := &fakePin{}
	spi := &fakeSPI{cs: cs, reply: [3]byte{0x00, 0x40, 0x00}}
	dev := New(NewSPIBus(spi, cs, nil), Config{Width: 4096, Height: 4096, Mapping: Identity(), SampleSize: 4})

	dev.Sample()

	assert.True(t, dev.IsPressed())
	assert.Equal(t, Position{X: 2048, Y: 2048}, dev.RawPosition())
	assert.Len(t, spi.sent, 8)
	assert.Equal(t, CmdX, spi.sent[0][0])
	assert.Equal(t, CmdY, spi.sent[1][0])
}
