package util_test

import (
	"os"
	"path"
	"strconv"
	"testing"

	"github.com/APTrust/pharos/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tempDir, _ = os.MkdirTemp("", "pharos-test")
var tempFile = path.Join(tempDir, "test-pid-file.txt")

func TestIsRunningInOtherProcess(t *testing.T) {
	defer os.Remove(tempFile)

	// False, because there is no pid file
	assert.False(t, util.IsRunningInOtherProcess(tempFile))

	// False, because zero is never a real pid
	os.WriteFile(tempFile, []byte("0"), 0664)
	assert.False(t, util.IsRunningInOtherProcess(tempFile))

	// False, because pid in file matches our pid
	os.Remove(tempFile)
	util.WritePidFile(tempFile)
	assert.False(t, util.IsRunningInOtherProcess(tempFile))
}

func TestClaimPidFile(t *testing.T) {
	defer os.Remove(tempFile)

	require.Nil(t, util.ClaimPidFile(tempFile))
	assert.Equal(t, os.Getpid(), util.ReadPidFile(tempFile))

	// Claiming again from the same process is fine.
	require.Nil(t, util.ClaimPidFile(tempFile))

	// Our parent (go test) is running, so its pid blocks us.
	ppid := os.Getppid()
	if ppid > 1 && util.ProcessIsRunning(ppid) {
		os.WriteFile(tempFile, []byte(strconv.Itoa(ppid)), 0664)
		assert.NotNil(t, util.ClaimPidFile(tempFile))
	}
}

func TestReadPidFile(t *testing.T) {
	defer os.Remove(tempFile)
	os.WriteFile(tempFile, []byte("9499\n"), 0664)
	assert.Equal(t, 9499, util.ReadPidFile(tempFile))
}

func TestDeletePidFile(t *testing.T) {
	defer os.Remove(tempFile)
	util.WritePidFile(tempFile)
	assert.True(t, util.FileExists(tempFile))
	util.DeletePidFile(tempFile)
	assert.False(t, util.FileExists(tempFile))
}

func TestProcessIsRunning(t *testing.T) {
	assert.True(t, util.ProcessIsRunning(os.Getpid()))
}
