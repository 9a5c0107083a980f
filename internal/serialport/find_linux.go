//go:build linux

package serialport

import (
	"strings"

	"github.com/hedhyw/Go-Serial-Detector/pkg/v1/serialdet"
)

// Find returns the path of the first serial device whose description
// contains match, ignoring case.
func Find(match string) (string, error) {
	devices, err := serialdet.List()
	if err != nil {
		return "", err
	}

	match = strings.ToLower(match)
	for _, device := range devices {
		if strings.Contains(strings.ToLower(device.Description()), match) {
			return device.Path(), nil
		}
	}

	return "", ErrNoDevice
}
