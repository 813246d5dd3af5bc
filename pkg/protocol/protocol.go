// Package protocol implements the line protocol spoken between a host and a
// microcontroller that bridges the touch controller's SPI bus.
//
// Requests (host to MCU):
//
//	r<HH>            read ADC with control byte HH (hex)
//	i                read IRQ level
//
// Replies (MCU to host):
//
//	r,<HH>,<value>   ADC reading, 0-4095
//	i,<level>        IRQ level, 0 or 1
//	e,<text>         request rejected
//
// Every line is terminated by '\n'; a trailing '\r' is ignored.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a request or reply.
type Kind byte

const (
	KindRead  Kind = 'r'
	KindIRQ   Kind = 'i'
	KindError Kind = 'e'
)

// MaxReading is the largest 12-bit conversion value.
const MaxReading = 4095

// ErrEmpty is returned for blank lines.
var ErrEmpty = errors.New("empty line")

// Request is a host command.
type Request struct {
	Kind Kind
	Cmd  byte // control byte for KindRead
}

// Reply is an MCU response.
type Reply struct {
	Kind  Kind
	Cmd   byte   // echoed control byte for KindRead
	Value int    // reading for KindRead, level for KindIRQ
	Text  string // message for KindError
}

// FormatRequest encodes a request including the newline.
func FormatRequest(req Request) string {
	switch req.Kind {
	case KindRead:
		return "r" + hexByte(req.Cmd) + "\n"
	case KindIRQ:
		return "i\n"
	}
	return ""
}

// ParseRequest decodes a request line with or without its terminator.
func ParseRequest(line string) (Request, error) {
	line = trim(line)
	if line == "" {
		return Request{}, ErrEmpty
	}

	switch Kind(line[0]) {
	case KindRead:
		if len(line) != 3 {
			return Request{}, fmt.Errorf("invalid read request %q: expected 2 hex digits", line)
		}
		cmd, err := parseHexByte(line[1:])
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: KindRead, Cmd: cmd}, nil
	case KindIRQ:
		if len(line) != 1 {
			return Request{}, fmt.Errorf("invalid irq request %q", line)
		}
		return Request{Kind: KindIRQ}, nil
	}
	return Request{}, fmt.Errorf("unknown request %q", line)
}

// FormatReply encodes a reply including the newline.
func FormatReply(rep Reply) string {
	switch rep.Kind {
	case KindRead:
		return "r," + hexByte(rep.Cmd) + "," + strconv.Itoa(rep.Value) + "\n"
	case KindIRQ:
		return "i," + strconv.Itoa(rep.Value) + "\n"
	case KindError:
		return "e," + rep.Text + "\n"
	}
	return ""
}

// ParseReply decodes a reply line with or without its terminator.
func ParseReply(line string) (Reply, error) {
	line = trim(line)
	if line == "" {
		return Reply{}, ErrEmpty
	}

	parts := strings.SplitN(line, ",", 3)
	if len(parts[0]) != 1 {
		return Reply{}, fmt.Errorf("invalid reply %q", line)
	}

	switch Kind(parts[0][0]) {
	case KindRead:
		if len(parts) != 3 {
			return Reply{}, fmt.Errorf("invalid read reply %q: expected 3 comma-separated values, got %d", line, len(parts))
		}
		cmd, err := parseHexByte(parts[1])
		if err != nil {
			return Reply{}, err
		}
		v, err := strconv.Atoi(parts[2])
		if err != nil {
			return Reply{}, fmt.Errorf("invalid reading: %w", err)
		}
		if v < 0 || v > MaxReading {
			return Reply{}, fmt.Errorf("reading out of range: %d (max %d)", v, MaxReading)
		}
		return Reply{Kind: KindRead, Cmd: cmd, Value: v}, nil
	case KindIRQ:
		if len(parts) != 2 {
			return Reply{}, fmt.Errorf("invalid irq reply %q", line)
		}
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			return Reply{}, fmt.Errorf("invalid irq level: %w", err)
		}
		if v != 0 && v != 1 {
			return Reply{}, fmt.Errorf("irq level out of range: %d", v)
		}
		return Reply{Kind: KindIRQ, Value: v}, nil
	case KindError:
		text := ""
		if len(parts) > 1 {
			text = strings.Join(parts[1:], ",")
		}
		return Reply{Kind: KindError, Text: text}, nil
	}
	return Reply{}, fmt.Errorf("unknown reply %q", line)
}

func trim(line string) string {
	return strings.TrimRight(line, "\r\n")
}

func parseHexByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid control byte %q: %w", s, err)
	}
	return byte(v), nil
}

func hexByte(b byte) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}
