package simcard

import "fmt"

// Status is the lock state of a card as reported to the modem.
type Status int

// Card states. Only Absent, PIN, PUK and Ready drive behavior here; NotReady
// and NetworkPersonalization are carried so SetStatus accepts every state the
// modem reports through AT+CPIN.
const (
	StatusAbsent Status = iota
	StatusNotReady
	StatusReady
	StatusPIN
	StatusPUK
	StatusNetworkPersonalization
)

var statusNames = map[Status]string{
	StatusAbsent:                 "ABSENT",
	StatusNotReady:               "NOT_READY",
	StatusReady:                  "READY",
	StatusPIN:                    "PIN",
	StatusPUK:                    "PUK",
	StatusNetworkPersonalization: "NETWORK_PERSONALIZATION",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
