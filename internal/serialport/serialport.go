// Package serialport opens the serial device a modem console runs on.
package serialport

import (
	"errors"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
)

// Auto requests detection of the device by its description.
const Auto = "auto"

var ErrNoDevice = errors.New("no matching serial device found")

// Open opens portName at baud, 8N1. When portName is Auto the first device
// whose description contains match is used.
func Open(portName string, baud uint, match string) (io.ReadWriteCloser, error) {
	if portName == Auto {
		found, err := Find(match)
		if err != nil {
			return nil, err
		}
		portName = found
	}

	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	return port, nil
}
