package mocks

import (
	"context"
	"sync"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

// SentEvent records one dispatch with the recipients resolved at the
// moment it was sent
type SentEvent struct {
	Event      transport.Event
	Group      string               // empty for direct sends
	Recipients []model.ConnectionID // actual delivery set
}

// FakeDispatcher is an in-memory Dispatcher for testing. It tracks
// group membership and records every send with its resolved recipients.
type FakeDispatcher struct {
	mu     sync.Mutex
	groups map[string]map[model.ConnectionID]struct{}
	sent   []SentEvent

	// SendErr, when set, is returned from every send call
	SendErr error
}

// Ensure FakeDispatcher implements Dispatcher
var _ transport.Dispatcher = (*FakeDispatcher)(nil)

// NewFakeDispatcher creates an empty FakeDispatcher
func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{
		groups: make(map[string]map[model.ConnectionID]struct{}),
	}
}

// AddToGroup joins a connection to a group
func (d *FakeDispatcher) AddToGroup(group string, connID model.ConnectionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.groups[group] == nil {
		d.groups[group] = make(map[model.ConnectionID]struct{})
	}
	d.groups[group][connID] = struct{}{}
}

// RemoveFromGroup removes a connection from a group
func (d *FakeDispatcher) RemoveFromGroup(group string, connID model.ConnectionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.groups[group], connID)
}

// SendToConnection records a direct send
func (d *FakeDispatcher) SendToConnection(ctx context.Context, connID model.ConnectionID, event transport.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SendErr != nil {
		return d.SendErr
	}
	d.sent = append(d.sent, SentEvent{
		Event:      event,
		Recipients: []model.ConnectionID{connID},
	})
	return nil
}

// SendToGroup records a send to every current group member
func (d *FakeDispatcher) SendToGroup(ctx context.Context, group string, event transport.Event) error {
	return d.sendToGroup(group, "", event)
}

// SendToGroupExcept records a send to every current group member except one
func (d *FakeDispatcher) SendToGroupExcept(ctx context.Context, group string, except model.ConnectionID, event transport.Event) error {
	return d.sendToGroup(group, except, event)
}

func (d *FakeDispatcher) sendToGroup(group string, except model.ConnectionID, event transport.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SendErr != nil {
		return d.SendErr
	}
	var recipients []model.ConnectionID
	for connID := range d.groups[group] {
		if except != "" && connID == except {
			continue
		}
		recipients = append(recipients, connID)
	}
	d.sent = append(d.sent, SentEvent{
		Event:      event,
		Group:      group,
		Recipients: recipients,
	})
	return nil
}

// Events returns every recorded send in order
func (d *FakeDispatcher) Events() []SentEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	events := make([]SentEvent, len(d.sent))
	copy(events, d.sent)
	return events
}

// EventsDeliveredTo returns, in order, every event whose delivery set
// included the given connection
func (d *FakeDispatcher) EventsDeliveredTo(connID model.ConnectionID) []transport.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var events []transport.Event
	for _, sent := range d.sent {
		for _, recipient := range sent.Recipients {
			if recipient == connID {
				events = append(events, sent.Event)
				break
			}
		}
	}
	return events
}

// EventsOfType returns every recorded send of the given type
func (d *FakeDispatcher) EventsOfType(eventType model.EventType) []SentEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var events []SentEvent
	for _, sent := range d.sent {
		if sent.Event.Type == eventType {
			events = append(events, sent)
		}
	}
	return events
}

// GroupMembers returns the current members of a group
func (d *FakeDispatcher) GroupMembers(group string) []model.ConnectionID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var members []model.ConnectionID
	for connID := range d.groups[group] {
		members = append(members, connID)
	}
	return members
}

// InGroup reports whether a connection is currently a group member
func (d *FakeDispatcher) InGroup(group string, connID model.ConnectionID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.groups[group][connID]
	return ok
}

// Reset clears recorded events but keeps group membership
func (d *FakeDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = nil
}
