package main

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vctt94/holdemtable/pkg/poker"
)

func TestUsageListsGlobalFlags(t *testing.T) {
	// main discards parse errors; the defaults must still be printed.
	flag.CommandLine.SetOutput(io.Discard)

	var buf bytes.Buffer
	usage(&buf)
	out := buf.String()
	require.Contains(t, out, "watch CODE TOKEN")
	require.Contains(t, out, "-dbpath")
	require.Contains(t, out, "-json")
	require.Equal(t, io.Discard, flag.CommandLine.Output())
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		words   []string
		want    poker.Action
		wantErr bool
	}{
		{[]string{"fold"}, poker.Action{Type: poker.ActionFold}, false},
		{[]string{"CALL"}, poker.Action{Type: poker.ActionCall}, false},
		{[]string{"allin"}, poker.Action{Type: poker.ActionAllIn}, false},
		{[]string{"raise", "60"}, poker.Action{Type: poker.ActionRaise, Amount: 60}, false},
		{[]string{"raise"}, poker.Action{}, true},
		{[]string{"raise", "-5"}, poker.Action{}, true},
		{[]string{"dance"}, poker.Action{}, true},
		{nil, poker.Action{}, true},
	}
	for _, tt := range tests {
		got, err := parseAction(tt.words)
		if tt.wantErr {
			require.Error(t, err, "%v", tt.words)
			continue
		}
		require.NoError(t, err, "%v", tt.words)
		require.Equal(t, tt.want, got)
	}
}
