//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func isAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}

func sendTerm(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

func sendKill(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}
