package process

// Notes:
// - KillProcessGroup: we only test with invalid PIDs to verify the function
//   doesn't panic. Real kill behavior is covered by the renderer integration
//   tests since we cannot safely kill real processes in unit tests.
// - Cannot test with PID 0 (kills current process group) or real PIDs.
// These are acceptable gaps: we test observable behavior, not syscall internals.

import (
	"os"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
	KillProcessGroup(0)  // guarded: would target our own group
	KillProcessGroup(-1) // guarded
}

// ---------------------------------------------------------------------------
// TestExists
// ---------------------------------------------------------------------------

func TestExists(t *testing.T) {
	t.Parallel()

	if !Exists(os.Getpid()) {
		t.Error("Exists(self) = false, want true")
	}
	if Exists(999999999) {
		t.Error("Exists(999999999) = true, want false")
	}
	if Exists(0) {
		t.Error("Exists(0) = true, want false")
	}
}
