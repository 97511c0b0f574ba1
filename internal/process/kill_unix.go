//go:build !windows

// Package process terminates the headless browser started for PDF output,
// including its helper processes.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	// Best effort: the launcher kills the leader afterwards anyway.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
