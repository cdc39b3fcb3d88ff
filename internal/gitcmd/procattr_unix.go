//go:build !windows

package gitcmd

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup puts the child in its own process group so that
// cancellation can signal the whole tree (git sometimes forks helpers,
// e.g. ssh) rather than only the direct child, and so that an abnormal
// exit of this process doesn't leave an orphaned git hung on stdin/stdout.
//
// cmd.Cancel is invoked by the context machinery when ctx is done; it
// sends SIGTERM to the group first and lets WaitDelay upgrade to SIGKILL
// if the group hasn't exited within the grace period.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = 3 * time.Second
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}
