package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// ClaimPidFile writes this process' pid to pathToFile, unless the file
// belongs to another pharos process that is still running. A stale
// file left behind by a crash is overwritten.
func ClaimPidFile(pathToFile string) error {
	if IsRunningInOtherProcess(pathToFile) {
		pid := ReadPidFile(pathToFile)
		if ProcessIsRunning(pid) {
			return fmt.Errorf("Pid file %s says pharos is already running as pid %d", pathToFile, pid)
		}
	}
	return WritePidFile(pathToFile)
}

// IsRunningInOtherProcess returns true if the pid file at pathToFile
// contains a pid belonging to another process.
func IsRunningInOtherProcess(pathToFile string) bool {
	if FileExists(pathToFile) {
		pid := ReadPidFile(pathToFile)
		return pid != 0 && pid != os.Getpid()
	}
	return false
}

// ReadPidFile returns the pid from the specified file, or zero.
func ReadPidFile(pathToFile string) int {
	if data, err := os.ReadFile(pathToFile); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			return pid
		}
	}
	return 0
}

// WritePidFile writes this process' pid to the specified file.
func WritePidFile(pathToFile string) error {
	pidStr := strconv.Itoa(os.Getpid())
	return os.WriteFile(pathToFile, []byte(pidStr), 0664)
}

// DeletePidFile deletes the specified pid file, if it looks safe to delete.
func DeletePidFile(pathToFile string) error {
	if LooksSafeToDelete(pathToFile, 12, 2) {
		return os.Remove(pathToFile)
	}
	return fmt.Errorf("Pid file %s does not look safe to delete", pathToFile)
}

// ProcessIsRunning returns true if the process with pid is running.
// os.FindProcess always succeeds on *nix, so this asks go-ps.
func ProcessIsRunning(pid int) bool {
	proc, _ := ps.FindProcess(pid)
	return proc != nil
}
