//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/goxpt/pkg/protocol"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

var (
	uart = machine.UART0
	bus  *xpt2046.SPIBus

	// Serial buffer for reading lines
	serialBuffer [MAX_LINE + 1]byte
	serialPos    int
	overflow     bool
)

func main() {
	machine.SPI0.Configure(machine.SPIConfig{
		Frequency: SPI_FREQUENCY,
		Mode:      SPI_MODE,
	})

	PIN_TOUCH_CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_TOUCH_IRQ.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	bus = xpt2046.NewSPIBus(machine.SPI0, PIN_TOUCH_CS, PIN_TOUCH_IRQ)

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Main loop: every request is answered, the host drives the timing
	for {
		processSerial()
		time.Sleep(50 * time.Microsecond)
	}
}

func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == '\n' || data == '\r' {
			if overflow {
				reply(protocol.Reply{Kind: protocol.KindError, Text: "line too long"})
			} else if serialPos > 0 {
				handleLine(string(serialBuffer[:serialPos]))
			}
			serialPos = 0
			overflow = false
			continue
		}

		if serialPos < MAX_LINE {
			serialBuffer[serialPos] = data
			serialPos++
		} else {
			// Drop the rest of the line; it is rejected at the terminator
			overflow = true
		}
	}
}

func handleLine(line string) {
	req, err := protocol.ParseRequest(line)
	if err != nil {
		reply(protocol.Reply{Kind: protocol.KindError, Text: err.Error()})
		return
	}

	switch req.Kind {
	case protocol.KindRead:
		reply(protocol.Reply{Kind: protocol.KindRead, Cmd: req.Cmd, Value: bus.ReadSample(req.Cmd)})
	case protocol.KindIRQ:
		reply(protocol.Reply{Kind: protocol.KindIRQ, Value: bus.InterruptLevel()})
	}
}

func reply(rep protocol.Reply) {
	print(protocol.FormatReply(rep))
}
