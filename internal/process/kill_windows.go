//go:build windows

// Package process manages browser processes spawned for a single render.
package process

import (
	"os/exec"
	"strconv"
	"strings"
)

// KillProcessGroup kills a process and its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() follows as a fallback
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// Exists reports whether a process with pid is still running.
func Exists(pid int) bool {
	if pid <= 0 {
		return false
	}
	out, err := exec.Command("tasklist", "/FI", "PID eq "+strconv.Itoa(pid), "/NH").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), " "+strconv.Itoa(pid)+" ")
}
