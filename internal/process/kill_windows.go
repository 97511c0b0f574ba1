//go:build windows

// Package process terminates the headless browser started for PDF output,
// including its helper processes.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills pid and its child processes with taskkill /T.
func KillProcessGroup(pid int) {
	// Best effort: the launcher kills the leader afterwards anyway.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an integer
}
