//go:build !linux

package serialport

// Find is only supported on linux.
func Find(string) (string, error) {
	return "", ErrNoDevice
}
