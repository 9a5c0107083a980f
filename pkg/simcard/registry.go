package simcard

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the number of card slots when none is configured.
const DefaultCapacity = 4

var (
	ErrInstanceOutOfRange = errors.New("instance out of range")
	ErrNoCard             = errors.New("no card in slot")
)

// Registry is a fixed set of card slots indexed by instance id.
type Registry struct {
	slots []*Card
}

// NewRegistry allocates capacity slots. A non-positive capacity selects
// DefaultCapacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{slots: make([]*Card, capacity)}
}

// Capacity returns the number of slots.
func (r *Registry) Capacity() int { return len(r.slots) }

// Create puts a fresh card in slot instance, replacing any previous one.
func (r *Registry) Create(port, instance int, opts ...Option) (*Card, error) {
	if err := r.check(instance); err != nil {
		return nil, err
	}
	card, err := New(port, instance, opts...)
	if err != nil {
		return nil, err
	}
	r.slots[instance] = card
	return card, nil
}

// Get returns the card in slot instance.
func (r *Registry) Get(instance int) (*Card, error) {
	if err := r.check(instance); err != nil {
		return nil, err
	}
	if r.slots[instance] == nil {
		return nil, fmt.Errorf("%w %d", ErrNoCard, instance)
	}
	return r.slots[instance], nil
}

// Destroy releases a card. Slots are reused by Create, so there is nothing
// to free.
func (r *Registry) Destroy(*Card) {}

func (r *Registry) check(instance int) error {
	if instance < 0 || instance >= len(r.slots) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInstanceOutOfRange, instance, len(r.slots))
	}
	return nil
}
