package xpt2046

import "tinygo.org/x/drivers/touch"

// Bus abstracts the hardware collaborators of the controller: one SPI
// transaction per ADC conversion and the touch-detect (PENIRQ) line.
type Bus interface {
	// ReadSample sends a control byte and returns the 12-bit conversion (0-4095).
	ReadSample(cmd byte) int
	// InterruptLevel returns the current digital level of the IRQ line.
	InterruptLevel() int
}

// Ensure SPIBus implements Bus.
var _ Bus = (*SPIBus)(nil)

// Ensure Mock implements Bus.
var _ Bus = (*Mock)(nil)

// Ensure Device implements touch.Pointer.
var _ touch.Pointer = (*Device)(nil)
