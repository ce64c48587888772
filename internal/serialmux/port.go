package serialmux

import "io"

// SerialPorter defines the minimal interface needed for a serial port.
// This abstraction enables unit testing without real serial hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// InputResetter is implemented by ports that can discard bytes received but
// not yet read. go.bug.st/serial ports implement it.
type InputResetter interface {
	ResetInputBuffer() error
}

// Opener opens a serial port at path with the given options. Commands take
// an Opener so tests can substitute a TestableSerialPort.
type Opener func(path string, opts PortOptions) (SerialPorter, error)
