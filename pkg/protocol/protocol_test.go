package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRequest(t *testing.T) {
	assert.Equal(t, "rD0\n", FormatRequest(Request{Kind: KindRead, Cmd: 0xD0}))
	assert.Equal(t, "r05\n", FormatRequest(Request{Kind: KindRead, Cmd: 0x05}))
	assert.Equal(t, "i\n", FormatRequest(Request{Kind: KindIRQ}))
	assert.Equal(t, "", FormatRequest(Request{Kind: 'x'}))
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Request
		wantErr bool
	}{
		{name: "read X", line: "rD0\n", want: Request{Kind: KindRead, Cmd: 0xD0}},
		{name: "read Y without newline", line: "r90", want: Request{Kind: KindRead, Cmd: 0x90}},
		{name: "carriage return", line: "rD0\r\n", want: Request{Kind: KindRead, Cmd: 0xD0}},
		{name: "irq", line: "i\n", want: Request{Kind: KindIRQ}},
		{name: "empty", line: "\n", wantErr: true},
		{name: "read without byte", line: "r\n", wantErr: true},
		{name: "read with three digits", line: "rD00\n", wantErr: true},
		{name: "read with bad hex", line: "rZZ\n", wantErr: true},
		{name: "irq with payload", line: "i1\n", wantErr: true},
		{name: "unknown", line: "x\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequest_Empty(t *testing.T) {
	_, err := ParseRequest("\r\n")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFormatReply(t *testing.T) {
	assert.Equal(t, "r,D0,2048\n", FormatReply(Reply{Kind: KindRead, Cmd: 0xD0, Value: 2048}))
	assert.Equal(t, "i,0\n", FormatReply(Reply{Kind: KindIRQ, Value: 0}))
	assert.Equal(t, "e,bad request\n", FormatReply(Reply{Kind: KindError, Text: "bad request"}))
	assert.Equal(t, "", FormatReply(Reply{Kind: 'x'}))
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Reply
		wantErr bool
	}{
		{name: "read", line: "r,D0,2048\n", want: Reply{Kind: KindRead, Cmd: 0xD0, Value: 2048}},
		{name: "read max", line: "r,90,4095", want: Reply{Kind: KindRead, Cmd: 0x90, Value: 4095}},
		{name: "read zero", line: "r,90,0\r\n", want: Reply{Kind: KindRead, Cmd: 0x90, Value: 0}},
		{name: "irq released", line: "i,1\n", want: Reply{Kind: KindIRQ, Value: 1}},
		{name: "irq pressed", line: "i,0\n", want: Reply{Kind: KindIRQ, Value: 0}},
		{name: "error", line: "e,unknown request \"x\"\n", want: Reply{Kind: KindError, Text: "unknown request \"x\""}},
		{name: "error with commas", line: "e,a,b,c\n", want: Reply{Kind: KindError, Text: "a,b,c"}},
		{name: "error without text", line: "e\n", want: Reply{Kind: KindError}},
		{name: "read out of range", line: "r,D0,4096\n", wantErr: true},
		{name: "read negative", line: "r,D0,-1\n", wantErr: true},
		{name: "read missing value", line: "r,D0\n", wantErr: true},
		{name: "read bad value", line: "r,D0,abc\n", wantErr: true},
		{name: "read bad command", line: "r,G0,1\n", wantErr: true},
		{name: "irq out of range", line: "i,2\n", wantErr: true},
		{name: "irq missing level", line: "i\n", wantErr: true},
		{name: "long kind", line: "rr,D0,1\n", wantErr: true},
		{name: "unknown", line: "z,1\n", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cmd := range []byte{0x00, 0x90, 0xD0, 0xFF} {
		req, err := ParseRequest(FormatRequest(Request{Kind: KindRead, Cmd: cmd}))
		require.NoError(t, err)
		assert.Equal(t, cmd, req.Cmd)

		rep, err := ParseReply(FormatReply(Reply{Kind: KindRead, Cmd: cmd, Value: int(cmd) * 16}))
		require.NoError(t, err)
		assert.Equal(t, int(cmd)*16, rep.Value)
	}
}
