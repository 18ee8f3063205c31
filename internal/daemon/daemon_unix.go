//go:build unix || linux || darwin

package daemon

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// findProcesses enumerates PIDs whose executable base name matches the
// daemon name. The pid,command format works on both Linux and Darwin and
// avoids the comm field's 15-character truncation.
func (c *Controller) findProcesses(ctx context.Context) []int {
	cmd := exec.CommandContext(ctx, "ps", "-e", "-o", "pid,command")
	output, err := cmd.Output()
	if err != nil {
		c.logger.Warn("failed to list processes", "err", err)
		return nil
	}
	return parsePIDs(output, c.name, os.Getpid())
}

// parsePIDs extracts matching PIDs from `ps -e -o pid,command` output,
// skipping the header row and selfPID.
func parsePIDs(output []byte, name string, selfPID int) []int {
	var pids []int
	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "PID") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if !strings.EqualFold(filepath.Base(fields[1]), name) {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil || pid == selfPID {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

func (c *Controller) killAll(ctx context.Context) int {
	var killed int
	for _, pid := range c.findProcesses(ctx) {
		if err := killGracefully(pid); err != nil {
			c.logger.Warn("failed to kill process", "daemon", c.name, "pid", pid, "err", err)
			continue
		}
		killed++
	}
	return killed
}

// killGracefully sends SIGTERM, polls for exit, and falls back to SIGKILL.
func killGracefully(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err == nil {
		for i := 0; i < 10; i++ {
			if err := process.Signal(syscall.Signal(0)); err != nil {
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		}
	}

	return process.Signal(syscall.SIGKILL)
}

// launch starts the supervisor in its own session so it survives this
// process's exit, and returns without waiting on the daemon.
func (c *Controller) launch(binaryPath string) (int, error) {
	cmd := exec.Command(c.supervisor, "--", binaryPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, err
	}
	return pid, nil
}
