package serialmux

import (
	"go.bug.st/serial"
)

// OpenPort opens a real serial port at path using the provided serial
// options. It satisfies Opener.
func OpenPort(path string, opts PortOptions) (SerialPorter, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}
