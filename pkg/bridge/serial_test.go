package bridge

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/itohio/goxpt/pkg/protocol"
	"github.com/itohio/goxpt/pkg/xpt2046"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge answers requests on one end of a pipe like the firmware does.
func fakeBridge(t *testing.T, reply func(protocol.Request) string) *Serial {
	t.Helper()

	host, mcu := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(mcu)
		for scanner.Scan() {
			req, err := protocol.ParseRequest(scanner.Text())
			var out string
			if err != nil {
				out = protocol.FormatReply(protocol.Reply{Kind: protocol.KindError, Text: err.Error()})
			} else {
				out = reply(req)
			}
			if _, err := mcu.Write([]byte(out)); err != nil {
				return
			}
		}
	}()

	s := New("pipe", 0, time.Second)
	s.attach(host)
	t.Cleanup(func() {
		s.Close()
		mcu.Close()
		<-done
	})
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := New("/dev/ttyACM0", 0, 0)
	assert.Equal(t, DefaultBaudRate, s.baudRate)
	assert.Equal(t, DefaultTimeout, s.timeout)
	assert.False(t, s.IsConnected())
}

func TestSerial_NotConnected(t *testing.T) {
	s := New("/dev/ttyACM0", 0, 0)

	assert.Equal(t, xpt2046.RailLow, s.ReadSample(xpt2046.CmdX))
	assert.ErrorIs(t, s.Err(), ErrNotConnected)
	assert.Equal(t, 1, s.InterruptLevel())
	assert.NoError(t, s.Close(), "closing a closed bus is a no-op")
}

func TestSerial_ReadSample(t *testing.T) {
	s := fakeBridge(t, func(req protocol.Request) string {
		switch req.Kind {
		case protocol.KindRead:
			return protocol.FormatReply(protocol.Reply{Kind: protocol.KindRead, Cmd: req.Cmd, Value: int(req.Cmd) * 10})
		default:
			return protocol.FormatReply(protocol.Reply{Kind: protocol.KindIRQ, Value: 0})
		}
	})

	assert.True(t, s.IsConnected())
	assert.Equal(t, 0xD0*10, s.ReadSample(xpt2046.CmdX))
	assert.Equal(t, 0x90*10, s.ReadSample(xpt2046.CmdY))
	assert.Equal(t, 0, s.InterruptLevel())
	assert.NoError(t, s.Err())
}

func TestSerial_SkipsStaleReplies(t *testing.T) {
	s := fakeBridge(t, func(req protocol.Request) string {
		return "\n" +
			"r,90,7\n" +
			"i,1\n" +
			protocol.FormatReply(protocol.Reply{Kind: protocol.KindRead, Cmd: req.Cmd, Value: 2048})
	})

	assert.Equal(t, 2048, s.ReadSample(xpt2046.CmdX))
	assert.NoError(t, s.Err())
}

func TestSerial_ErrorReply(t *testing.T) {
	s := fakeBridge(t, func(req protocol.Request) string {
		return "e,spi fault\n"
	})

	assert.Equal(t, xpt2046.RailLow, s.ReadSample(xpt2046.CmdX))
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "spi fault")
}

func TestSerial_MalformedReply(t *testing.T) {
	s := fakeBridge(t, func(req protocol.Request) string {
		return "r,D0,9999\n"
	})

	assert.Equal(t, xpt2046.RailLow, s.ReadSample(xpt2046.CmdX))
	assert.Error(t, s.Err())
}

func TestSerial_DeviceSample(t *testing.T) {
	panel := xpt2046.NewMock(0)
	panel.Press(xpt2046.RawSample{X: 1800, Y: 900})

	s := fakeBridge(t, func(req protocol.Request) string {
		if req.Kind == protocol.KindIRQ {
			return protocol.FormatReply(protocol.Reply{Kind: protocol.KindIRQ, Value: panel.InterruptLevel()})
		}
		return protocol.FormatReply(protocol.Reply{Kind: protocol.KindRead, Cmd: req.Cmd, Value: panel.ReadSample(req.Cmd)})
	})

	dev := xpt2046.New(s, xpt2046.Config{Width: 240, Height: 320, Mapping: xpt2046.Identity(), SampleSize: 4})
	dev.Sample()

	assert.True(t, dev.IsPressed())
	assert.Equal(t, xpt2046.Position{X: 1800, Y: 900}, dev.RawPosition())
	assert.Equal(t, 0, dev.InterruptLevel())

	panel.Release()
	dev.Sample()
	assert.False(t, dev.IsPressed())
}

func TestSerial_Close(t *testing.T) {
	s := fakeBridge(t, func(req protocol.Request) string { return "i,1\n" })

	require.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
	assert.Equal(t, xpt2046.RailLow, s.ReadSample(xpt2046.CmdX))
	assert.ErrorIs(t, s.Err(), ErrNotConnected)
}
