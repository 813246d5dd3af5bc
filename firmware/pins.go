package main

import "machine"

const (
	// SPI configuration. The controller is specified up to 2.5 MHz; stay below.
	SPI_FREQUENCY = 2000000
	SPI_MODE      = 0

	// Touch controller pins
	PIN_TOUCH_CS  = machine.D7
	PIN_TOUCH_IRQ = machine.D6

	// Serial configuration
	// A read exchange is "rD0\n" (4 bytes) answered by "r,D0,4095\n" (10 bytes).
	// One 20-sample pass needs 40 exchanges = 560 bytes; 50 passes/sec = 28,000 bytes/sec.
	// UART 8N1 at 115200 carries 11,520 bytes/sec, so only USB CDC reaches that rate;
	// over a real UART expect about 20 passes/sec.
	UART_BAUD_RATE = 115200

	// Longest accepted request line, excluding the terminator
	MAX_LINE = 15
)
