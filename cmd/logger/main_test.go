package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/uwb.report/internal/serialmux"
)

// feedAfterReset streams data into port once the logger has flushed the
// input buffer, the way a board keeps transmitting after the flush.
func feedAfterReset(port *serialmux.TestableSerialPort, data string) {
	go func() {
		for port.ResetCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		port.AddReadData([]byte(data))
	}()
}

func newBlockingPort() *serialmux.TestableSerialPort {
	port := serialmux.NewTestableSerialPort()
	port.BlockReads = true
	return port
}

func noEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestRun_NamedSession(t *testing.T) {
	dir := t.TempDir()
	port := newBlockingPort()
	port.AddReadData([]byte("stale,1.00\n"))
	opener := &serialmux.MockOpener{Port: port}
	feedAfterReset(port, "UWB init ok\n1000,1.01\n1010,1.02\n\n1020,1.03,extra\n1030,1.04\n1040,1.05\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-env", noEnv(t), "-out", dir, "-samples", "3", "-name", "1m_10Hz"},
		strings.NewReader(""), &stdout, &stderr, opener.Open)
	require.NoError(t, err)

	path := filepath.Join(dir, "1m_10Hz.csv")
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Timestamp_ms,Measured_Distance_m\n1000,1.01\n1010,1.02\n1030,1.04\n", string(got))

	out := stdout.String()
	assert.Contains(t, out, "Connected to "+"/dev/cu.usbmodem1201")
	assert.Contains(t, out, "DONE! Saved 3 samples to:\n"+path)
	assert.NotContains(t, out, "Enter filename")
	assert.NotContains(t, out, "Do another experiment?")
	assert.True(t, port.IsClosed())
	assert.Equal(t, 1, port.ResetCount())
}

func TestRun_InteractivePromptAndDecline(t *testing.T) {
	dir := t.TempDir()
	port := newBlockingPort()
	opener := &serialmux.MockOpener{Port: port}
	feedAfterReset(port, "1,2.0\n2,2.0\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-env", noEnv(t), "-out", dir, "-samples", "2"},
		strings.NewReader("2m_5Hz.csv\nn\n"), &stdout, &stderr, opener.Open)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Enter filename (e.g., 1m_10Hz): ")
	assert.Contains(t, out, "Saving to: "+filepath.Join(dir, "2m_5Hz.csv"))
	assert.Contains(t, out, "\nDo another experiment? (y/n): ")
	assert.Len(t, opener.OpenCalls, 1)
}

func TestRun_ConnectionFailureExitsCleanly(t *testing.T) {
	opener := &serialmux.MockOpener{Error: errors.New("no such file or directory")}

	var stdout, stderr bytes.Buffer
	err := run([]string{"-env", noEnv(t), "-port", "/dev/ttyUSB9"},
		strings.NewReader("1m_10Hz\n"), &stdout, &stderr, opener.Open)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Error connecting to port: no such file or directory")
	assert.NotContains(t, stdout.String(), "Enter filename")
	assert.Equal(t, "/dev/ttyUSB9", opener.LastCall().Path)
}

func TestRun_ConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "logger.json")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte(`{"serial_port": "/dev/from-file", "baud_rate": 57600, "sample_count": 5}`), 0644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("UWB_SERIAL_PORT=/dev/from-env\n"), 0644))

	opener := &serialmux.MockOpener{Error: errors.New("offline")}

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", cfgPath, "-env", envPath, "-baud", "9600"},
		strings.NewReader(""), &stdout, &stderr, opener.Open)
	require.NoError(t, err)

	call := opener.LastCall()
	require.NotNil(t, call)
	assert.Equal(t, "/dev/from-env", call.Path)
	assert.Equal(t, 9600, call.Options.BaudRate)
	assert.Equal(t, 8, call.Options.DataBits)
}

func TestRun_RejectsBadArguments(t *testing.T) {
	opener := &serialmux.MockOpener{}
	for _, args := range [][]string{{"extra"}, {"-samples", "x"}} {
		var stdout, stderr bytes.Buffer
		err := run(args, strings.NewReader(""), &stdout, &stderr, opener.Open)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"-env", noEnv(t), "-samples", "-1"}, strings.NewReader(""), &stdout, &stderr, opener.Open)
	assert.Error(t, err)
	assert.Empty(t, opener.OpenCalls)
}
