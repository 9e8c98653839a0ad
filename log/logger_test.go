package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestSetLevelAndOutput(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() {
		loggerLock.Lock()
		logger = prev
		loggerLock.Unlock()
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")

	Info().Msg("hidden")
	Warn().Str("k", "v").Msg("shown")
	ReqLogger().Errorf("request failed: %s\n", "boom")
	StdErrorLogger().Print("http: TLS handshake error")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"message":"shown"`)
	require.Contains(t, out, `"k":"v"`)
	require.Contains(t, out, `"message":"request failed: boom"`)
	require.Contains(t, out, `"message":"http: TLS handshake error"`)
	require.Contains(t, out, `"component":"platform-sdk"`)
}
