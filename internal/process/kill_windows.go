//go:build windows

// Package process terminates browser process trees left behind by the
// render surface.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree kills a process and its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
