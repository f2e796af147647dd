//go:build windows

package executor

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

// terminate has no graceful equivalent to SIGTERM on Windows; per §9,
// force-kill is the accepted fallback on platforms without reliable
// signal semantics.
func terminate(cmd *exec.Cmd) {
	kill(cmd)
}

func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
