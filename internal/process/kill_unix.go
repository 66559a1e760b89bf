//go:build !windows

// Package process terminates browser process trees left behind by the
// render surface.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, which takes the
// browser's renderer and GPU children down with it.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the launcher's own kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
