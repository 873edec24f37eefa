// Package scan drives the exploration of recurrence parameter spaces.
// This file contains the Observer pattern implementation for scan progress
// reporting.
package scan

import (
	"sync"
)

// ProgressUpdate is a data transfer object describing how far a scan has
// advanced. It is delivered to observers and, through the ChannelObserver,
// to the terminal progress display.
type ProgressUpdate struct {
	// Completed is the number of combinations processed so far.
	Completed uint64
	// Total is the size of the combination space.
	Total uint64
	// Value is the normalized progress, ranging from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the functional callback used by the scan loop to
// report progress without being coupled to any particular consumer.
type ProgressReporter func(update ProgressUpdate)

// ProgressObserver defines the interface for observing scan progress.
// Implementations receive notifications as the scan advances, enabling
// decoupled handling for UI, logging, and metrics.
type ProgressObserver interface {
	// Update is called when progress changes.
	Update(update ProgressUpdate)
}

// ProgressSubject manages observer registration and notification for
// progress events. It implements the Subject part of the Observer pattern,
// allowing multiple observers to follow one scan without coupling the
// driver to its consumers.
//
// ProgressSubject is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a new subject for managing progress observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer to receive progress updates.
// Observers are notified in the order they are registered.
//
// Parameters:
//   - observer: The observer to add. If nil, this call is a no-op.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer from receiving updates.
// If the observer is not found, this call is a no-op.
//
// Parameters:
//   - observer: The observer to remove.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends a progress update to all registered observers.
// Observers are notified synchronously in registration order.
func (s *ProgressSubject) Notify(update ProgressUpdate) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(update)
	}
}

// ObserverCount returns the number of registered observers.
// This is primarily useful for testing and diagnostics.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsReporter returns a ProgressReporter that notifies all observers,
// suitable for passing to Run.
func (s *ProgressSubject) AsReporter() ProgressReporter {
	return func(update ProgressUpdate) {
		s.Notify(update)
	}
}
