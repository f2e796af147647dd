//go:build windows

package supervisor

import (
	"os"
	"os/exec"
)

func detach(cmd *exec.Cmd) {}

// isAlive is best-effort on Windows: it only reports whether
// os.FindProcess can open the PID (there is no portable signal-0 probe),
// so a PID that has been reused by another process still reads as alive.
// Per §4.4/§9 this is the accepted degradation on platforms without
// reliable process/signal semantics.
func isAlive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}

// sendTerm has no graceful equivalent on Windows; force-kill is the
// accepted fallback (§9).
func sendTerm(pid int) error {
	return sendKill(pid)
}

func sendKill(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
