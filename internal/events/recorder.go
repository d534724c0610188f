package events

import (
	"context"
	"sync"
)

type Recorded struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps published events in memory. Err, when set, is returned from
// every publish after the event is recorded.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	Err    error
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Topic: topic, Key: key, Event: event})
	return r.Err
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Topic(topic string) []Recorded {
	var out []Recorded
	for _, e := range r.Events() {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}
