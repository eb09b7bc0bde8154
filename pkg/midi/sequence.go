package midi

import (
	"sort"
	"sync"
)

// Sequence holds note events in sample order and hands them out a block
// at a time. Events may be added while it plays; an event added behind the
// play position is never delivered.
type Sequence struct {
	mu       sync.Mutex
	events   []Event
	sorted   bool
	position int64
}

// NewSequence creates a sequence holding events.
func NewSequence(events ...Event) *Sequence {
	s := &Sequence{events: make([]Event, 0, len(events)), sorted: true}
	s.Add(events...)
	return s
}

// Add schedules events.
func (s *Sequence) Add(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
	s.sorted = false
}

// Due appends to dst the events from the play position up to, but not
// including, end and moves the play position to end. Events at the same
// offset keep the order they were added in.
func (s *Sequence) Due(dst []Event, end int64) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if end <= s.position {
		return dst
	}
	s.ensureSorted()
	i := s.search(s.position)
	for ; i < len(s.events) && s.events[i].SampleOffset() < end; i++ {
		dst = append(dst, s.events[i])
	}
	s.position = end
	return dst
}

// Position returns the play position.
func (s *Sequence) Position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Rewind moves the play position back to the start.
func (s *Sequence) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = 0
}

// Len returns the number of events.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Pending returns the number of events not yet delivered.
func (s *Sequence) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorted()
	return len(s.events) - s.search(s.position)
}

// Events returns a copy of all events in order.
func (s *Sequence) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSorted()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Clear drops every event and rewinds.
func (s *Sequence) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
	s.sorted = true
	s.position = 0
}

func (s *Sequence) search(offset int64) int {
	return sort.Search(len(s.events), func(i int) bool {
		return s.events[i].SampleOffset() >= offset
	})
}

func (s *Sequence) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].SampleOffset() < s.events[j].SampleOffset()
	})
	s.sorted = true
}
