package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open("/dev/does-not-exist-sim", 115200, "")
	assert.Error(t, err)
}

func TestFindNoMatch(t *testing.T) {
	_, err := Find("no device has this description 7f3c")
	assert.Error(t, err)
}
