package iso7816

import (
	"fmt"

	"github.com/gregLibert/sim-card/pkg/bits"
)

// Class Byte (CLA) Structure.
//
// GSM 11.11 uses the proprietary class 'A0' for every command. ISO/IEC 7816-4
// interindustry classes (bit 8 cleared) carry command chaining on bit 5 and the
// logical channel on bits 2-1; a SIM only ever uses channel 0.

// ClassGSM is the class byte of every GSM 11.11 command.
var ClassGSM = Class{Raw: 0xA0, IsProprietary: true}

// Class represents the parsed CLA byte.
type Class struct {
	Raw           byte
	IsProprietary bool
	IsChained     bool
	Channel       uint8
}

// NewClass creates a Class object by decoding a raw CLA byte.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	c.IsChained = bits.IsSet(cla, 5)
	c.Channel = bits.GetRange(cla, 2, 1)

	return c, nil
}

// Encode converts the Class object back to its byte representation.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}
	if c.Channel > 3 {
		return 0, fmt.Errorf("channel %d out of range (max 3)", c.Channel)
	}

	var res byte
	if c.IsChained {
		res = bits.Set(res, 5)
	}
	res |= c.Channel

	return res, nil
}

// Verbose returns a human-readable description of the CLA byte configuration.
func (c Class) Verbose() string {
	if c.IsProprietary {
		if c.Raw == ClassGSM.Raw {
			return "Class: GSM (0xA0)"
		}
		return fmt.Sprintf("Class: Proprietary (0x%02X)", c.Raw)
	}

	chaining := "Last or only command"
	if c.IsChained {
		chaining = "More commands follow (Chaining)"
	}

	return fmt.Sprintf("Class: Interindustry (0x%02X)\nChaining: %s\nLogical Channel: %d", c.Raw, chaining, c.Channel)
}
