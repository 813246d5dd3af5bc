// Package bridge drives a touch controller attached to a microcontroller
// running the SPI bridge firmware, over a serial port.
package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/itohio/goxpt/pkg/protocol"
	"github.com/itohio/goxpt/pkg/xpt2046"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the firmware UART configuration.
	DefaultBaudRate = 115200
	// DefaultTimeout bounds a single request/reply exchange.
	DefaultTimeout = 100 * time.Millisecond
)

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrTimeout          = errors.New("reply timeout")
)

// Ensure Serial implements xpt2046.Bus.
var _ xpt2046.Bus = (*Serial)(nil)

// Serial is an xpt2046.Bus backed by the bridge firmware.
//
// Transactions that fail (not connected, timeout, malformed or error reply)
// read as xpt2046.RailLow, which the sampler treats as "not pressed". The
// last failure is available from Err.
type Serial struct {
	port     string
	baudRate int
	timeout  time.Duration

	mu        sync.Mutex
	conn      io.ReadWriteCloser
	connected bool
	buf       [64]byte
	pending   []byte
	lastErr   error
}

// New creates a Serial bus for the given port. Zero values select defaults.
func New(port string, baudRate int, timeout time.Duration) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		timeout:  timeout,
	}
}

// Ports returns the names of the available serial ports.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// Connect opens the serial port.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}
	if err := port.SetReadTimeout(s.timeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", s.port, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		log.Printf("Error flushing serial input on %s: %v", s.port, err)
	}

	s.attach(port)
	return nil
}

// attach starts using an already opened connection.
func (s *Serial) attach(conn io.ReadWriteCloser) {
	s.conn = conn
	s.connected = true
	s.pending = s.pending[:0]
	s.lastErr = nil
}

// Close closes the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.connected = false
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", s.port, err)
	}
	return nil
}

// IsConnected returns whether the port is open.
func (s *Serial) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Err returns the error of the last failed transaction, or nil if the last
// transaction succeeded.
func (s *Serial) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ReadSample requests one conversion from the bridge.
func (s *Serial) ReadSample(cmd byte) int {
	rep, err := s.exchange(protocol.Request{Kind: protocol.KindRead, Cmd: cmd})
	if err != nil {
		return xpt2046.RailLow
	}
	return rep.Value
}

// InterruptLevel requests the IRQ level. A failed request reads as released.
func (s *Serial) InterruptLevel() int {
	rep, err := s.exchange(protocol.Request{Kind: protocol.KindIRQ})
	if err != nil {
		return 1
	}
	return rep.Value
}

// exchange sends a request and waits for the matching reply.
func (s *Serial) exchange(req protocol.Request) (protocol.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep, err := s.roundTrip(req)
	// log each distinct failure once
	if err != nil && (s.lastErr == nil || s.lastErr.Error() != err.Error()) {
		log.Printf("Bridge request %q failed: %v", protocol.FormatRequest(req), err)
	}
	s.lastErr = err
	return rep, err
}

func (s *Serial) roundTrip(req protocol.Request) (protocol.Reply, error) {
	if !s.connected {
		return protocol.Reply{}, ErrNotConnected
	}

	if _, err := io.WriteString(s.conn, protocol.FormatRequest(req)); err != nil {
		return protocol.Reply{}, fmt.Errorf("failed to send request: %w", err)
	}

	deadline := time.Now().Add(s.timeout)
	for {
		line, err := s.readLine(deadline)
		if err != nil {
			return protocol.Reply{}, err
		}

		rep, err := protocol.ParseReply(line)
		if errors.Is(err, protocol.ErrEmpty) {
			continue
		}
		if err != nil {
			return protocol.Reply{}, fmt.Errorf("invalid reply: %w", err)
		}
		if rep.Kind == protocol.KindError {
			return protocol.Reply{}, fmt.Errorf("bridge rejected request: %s", rep.Text)
		}
		// Skip replies to earlier, timed out requests.
		if rep.Kind != req.Kind || (req.Kind == protocol.KindRead && rep.Cmd != req.Cmd) {
			continue
		}
		return rep, nil
	}
}

// readLine returns the next line without its terminator.
func (s *Serial) readLine(deadline time.Time) (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return line, nil
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}

		n, err := s.conn.Read(s.buf[:])
		if n > 0 {
			s.pending = append(s.pending, s.buf[:n]...)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read reply: %w", err)
		}
	}
}
