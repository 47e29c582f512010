package process

// Notes:
// - Only pids that cannot belong to a live process are used here. Real
//   browser teardown is covered by the root package integration tests.
// These are acceptable gaps: we test observable behavior, not syscall internals.

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Harmless pids
// ---------------------------------------------------------------------------

func TestKillProcessGroup_HarmlessPIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pid  int
	}{
		{name: "unlaunched browser", pid: 0},
		{name: "negative pid", pid: -42},
		{name: "nonexistent pid", pid: 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			KillProcessGroup(tt.pid) // must return without killing the test binary
		})
	}
}
