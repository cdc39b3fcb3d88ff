//go:build windows

package gitcmd

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup puts the child in a new process group (CREATE_NEW_PROCESS_GROUP)
// so that cancellation can reach the whole tree. Windows has no SIGTERM; the
// grace-period upgrade is a plain TerminateProcess via cmd.Cancel's default
// once WaitDelay elapses.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	cmd.WaitDelay = 3 * time.Second
}
