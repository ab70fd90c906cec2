//go:build !windows

// Package process manages browser processes spawned for a single render.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() follows as a fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// Exists reports whether a process with pid is still running.
func Exists(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
