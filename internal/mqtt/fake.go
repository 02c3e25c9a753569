package mqtt

import (
	"sync"

	"heating_controller/internal/models"
)

// FakePublisher records published states for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// States contains every state that was published.
	States []models.DeviceState

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by PublishTarget.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTarget records the state.
func (f *FakePublisher) PublishTarget(state models.DeviceState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(state)
	if err != nil {
		return err
	}
	f.States = append(f.States, state)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Published returns a copy of the recorded states.
func (f *FakePublisher) Published() []models.DeviceState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DeviceState, len(f.States))
	copy(out, f.States)
	return out
}
