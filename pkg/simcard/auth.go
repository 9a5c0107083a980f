package simcard

import "github.com/sirupsen/logrus"

// PIN/PUK policy.
const (
	DefaultPIN = "0000"
	DefaultPUK = "12345678"

	PINSize = 4
	PUKSize = 8

	// MaxPINAttempts wrong PINs lock the PIN behind the PUK.
	MaxPINAttempts = 3
	// MaxPUKAttempts is compared against the shared retry counter, which
	// keeps the PIN failures that caused the PUK lock.
	MaxPUKAttempts = 6
)

// Status returns the current lock state.
func (c *Card) Status() Status { return c.status }

// SetStatus forces the lock state. Retries are left untouched.
func (c *Card) SetStatus(s Status) {
	c.transition(s, "forced")
}

// PIN returns the current PIN.
func (c *Card) PIN() string { return c.pin }

// PUK returns the current PUK.
func (c *Card) PUK() string { return c.puk }

// PINRetries returns the number of failed attempts since the last success.
func (c *Card) PINRetries() int { return c.pinRetries }

// SetPIN replaces the PIN, keeping at most PINSize characters, and clears the
// retry counter.
func (c *Card) SetPIN(pin string) {
	c.pin = truncate(pin, PINSize)
	c.pinRetries = 0
}

// SetPUK replaces the PUK, keeping at most PUKSize characters, and clears the
// retry counter.
func (c *Card) SetPUK(puk string) {
	c.puk = truncate(puk, PUKSize)
	c.pinRetries = 0
}

// CheckPIN verifies candidate against the PIN. It only acts while the card
// is Ready or waiting for a PIN. Failures while Ready are not counted. The
// MaxPINAttempts-th counted failure moves the card to StatusPUK.
func (c *Card) CheckPIN(candidate string) bool {
	if c.status != StatusPIN && c.status != StatusReady {
		c.log.WithField("status", c.status).Debug("PIN check ignored")
		return false
	}

	if candidate == c.pin {
		c.pinRetries = 0
		c.transition(StatusReady, "PIN verified")
		return true
	}

	c.log.WithField("status", c.status).Debug("PIN mismatch")
	if c.status != StatusReady {
		c.pinRetries++
		if c.pinRetries >= MaxPINAttempts {
			c.transition(StatusPUK, "PIN blocked")
		}
	}
	return false
}

// CheckPUK verifies puk while the PIN is blocked. On success newPIN becomes
// the PIN and the card is Ready. The counter reaching MaxPUKAttempts makes
// the card permanently Absent.
func (c *Card) CheckPUK(puk, newPIN string) bool {
	if c.status != StatusPUK {
		c.log.WithField("status", c.status).Debug("PUK check ignored")
		return false
	}

	if puk == c.puk {
		c.puk = truncate(puk, PUKSize)
		c.pin = truncate(newPIN, PINSize)
		c.pinRetries = 0
		c.transition(StatusReady, "PUK verified")
		return true
	}

	c.log.WithField("retries", c.pinRetries+1).Debug("PUK mismatch")
	c.pinRetries++
	if c.pinRetries >= MaxPUKAttempts {
		c.transition(StatusAbsent, "PUK blocked")
	}
	return false
}

func (c *Card) transition(to Status, reason string) {
	if c.status == to {
		return
	}
	c.log.WithFields(logrus.Fields{
		"from":    c.status,
		"to":      to,
		"retries": c.pinRetries,
	}).Info(reason)
	c.status = to
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
