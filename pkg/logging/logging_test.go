package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)

	l, err := CommonLogger(NewConfig(`tests`).WithWriter(buf).WithLevel(slog.LevelInfo))
	require.NoError(t, err, "Failed to create logger")

	l.Debug("hidden")
	l.Info("shown", slog.String(KeyGuildID, "123"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "shown", got["msg"])
	require.Equal(t, "tests", got[KeyApp])
	require.Equal(t, "123", got[KeyGuildID])
}

func TestCommonLogger_Invalid(t *testing.T) {
	_, err := CommonLogger(nil)
	require.Error(t, err)

	_, err = CommonLogger(NewConfig(""))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
