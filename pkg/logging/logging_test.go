package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogBackend(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "pokersrv.log")

	lb, err := NewLogBackend(LogConfig{
		LogFile:     logFile,
		DebugLevel:  "info",
		MaxLogFiles: 2,
		Console:     &console,
	})
	require.NoError(t, err)

	log := lb.Logger(SubsystemLobby)
	require.Equal(t, log, lb.Logger(SubsystemLobby))

	log.Infof("room %s created", "ABCDEF")
	log.Debugf("hidden detail")

	require.NoError(t, lb.SetLevel("debug"))
	log.Debugf("visible detail")
	lb.Logger(SubsystemStore).Debugf("new logger inherits level")
	require.NoError(t, lb.Close())

	out := console.String()
	require.Contains(t, out, "[INF] LBBY: room ABCDEF created")
	require.Contains(t, out, "visible detail")
	require.Contains(t, out, "STOR: new logger inherits level")
	require.NotContains(t, out, "hidden detail")

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(b), "room ABCDEF created")
	require.Contains(t, string(b), "visible detail")
}

func TestInvalidLevel(t *testing.T) {
	_, err := NewLogBackend(LogConfig{DebugLevel: "loud", Console: &bytes.Buffer{}})
	require.Error(t, err)

	lb, err := NewLogBackend(LogConfig{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	require.Error(t, lb.SetLevel("loud"))
	require.NoError(t, lb.Close())
}
