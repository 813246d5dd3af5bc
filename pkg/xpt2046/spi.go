package xpt2046

import "tinygo.org/x/drivers"

// Pin is a chip-select output. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// InputPin is a readable input. machine.Pin satisfies it.
type InputPin interface {
	Get() bool
}

// SPIBus talks to the controller over an SPI bus with a dedicated chip
// select. The bus must already be configured (mode 0, <= 2 MHz).
type SPIBus struct {
	spi drivers.SPI
	cs  Pin
	irq InputPin

	tx [3]byte
	rx [3]byte
}

// NewSPIBus creates an SPIBus. cs is driven high (deselected). irq may be nil
// when the PENIRQ line is not wired, in which case InterruptLevel returns 1.
func NewSPIBus(spi drivers.SPI, cs Pin, irq InputPin) *SPIBus {
	cs.High()
	return &SPIBus{
		spi: spi,
		cs:  cs,
		irq: irq,
	}
}

// ReadSample performs one conversion. A failed transfer reads as RailLow.
func (b *SPIBus) ReadSample(cmd byte) int {
	b.tx = [3]byte{cmd, 0x00, 0x00}

	b.cs.Low()
	err := b.spi.Tx(b.tx[:], b.rx[:])
	b.cs.High()
	if err != nil {
		return RailLow
	}

	return decode12(b.rx[1], b.rx[2])
}

// InterruptLevel returns 1 when the IRQ line is high (released).
func (b *SPIBus) InterruptLevel() int {
	if b.irq == nil || b.irq.Get() {
		return 1
	}
	return 0
}

// decode12 extracts the conversion: one busy bit, 12 data bits, 3 pad bits.
func decode12(hi, lo byte) int {
	return int((uint16(hi)<<8|uint16(lo))>>3) & 0x0FFF
}
