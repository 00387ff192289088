package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventCaseCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.CaseID)
		return errors.New("boom")
	})
	d.Subscribe(EventCaseCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.CaseID)
		return nil
	})
	d.Subscribe(EventCaseDeleted, func(_ context.Context, _ Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventCaseCreated, CaseID: "c1"})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:c1" || calls[1] != "second:c1" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestNilRedisPublisherIsNoop(t *testing.T) {
	p := NewRedisPublisher(nil, "chan")
	if p != nil {
		t.Fatalf("expected nil publisher without client")
	}
	if err := p.Handle(context.Background(), Event{Type: EventCaseCreated}); err != nil {
		t.Fatalf("nil publisher should not fail: %v", err)
	}
	p.SubscribeAll(NewInMemoryDispatcher())
}
