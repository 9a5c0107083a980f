// Package simcard emulates the SIM of a virtual modem: PIN/PUK locking, a
// read-only elementary file store and the "+CRSM" restricted SIM access
// protocol.
//
// A card answers +CRSM requests in one of two modes. In static mode (the
// default) requests are matched verbatim against a built-in table of
// pre-encoded answers for the files a phone reads at boot. In dynamic mode,
// selected by provisioning files with WithFiles, requests are parsed and
// served from those files:
//
//	iccid, _ := simcard.NewDedicated(0x2FE2, simcard.ReadOnly, iccidBytes)
//	card, err := simcard.New(5554, 0, simcard.WithFiles(iccid))
//	if err != nil {
//		return err
//	}
//	fmt.Println(card.HandleCommand("+CRSM=192,12258,0,0,15"))
//
// Cards are not safe for concurrent use.
package simcard

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Mode selects how a card answers +CRSM requests.
type Mode int

const (
	ModeStatic Mode = iota
	ModeDynamic
)

func (m Mode) String() string {
	if m == ModeDynamic {
		return "dynamic"
	}
	return "static"
}

// Card is one emulated SIM.
type Card struct {
	port     int
	instance int

	status     Status
	pin        string
	puk        string
	pinRetries int

	store *Store
	log   *logrus.Entry
}

type options struct {
	files  []File
	logger logrus.FieldLogger
}

// Option configures a card at creation.
type Option func(*options)

// WithFiles provisions the card's file store. A card with at least one file
// runs in dynamic mode.
func WithFiles(files ...File) Option {
	return func(o *options) {
		o.files = append(o.files, files...)
	}
}

// WithLogger replaces the standard logrus logger. The card adds port and
// instance fields.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a Ready card with the default PIN and PUK.
func New(port, instance int, opts ...Option) (*Card, error) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	store, err := NewStore(o.files...)
	if err != nil {
		return nil, fmt.Errorf("card %d: %w", instance, err)
	}

	c := &Card{
		port:     port,
		instance: instance,
		status:   StatusReady,
		pin:      DefaultPIN,
		puk:      DefaultPUK,
		store:    store,
		log: o.logger.WithFields(logrus.Fields{
			"port":     port,
			"instance": instance,
		}),
	}
	c.log.WithField("mode", c.Mode()).Debug("SIM card created")
	return c, nil
}

// Port returns the modem port the card belongs to.
func (c *Card) Port() int { return c.port }

// Instance returns the card's registry slot.
func (c *Card) Instance() int { return c.instance }

// Mode reports whether +CRSM requests are served from files or from the
// static table.
func (c *Card) Mode() Mode {
	if c.store.Len() > 0 {
		return ModeDynamic
	}
	return ModeStatic
}

// Files returns the provisioned files ordered by id.
func (c *Card) Files() []File { return c.store.Files() }
