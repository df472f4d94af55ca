// Package auth holds the password buffer shared between the UI and the
// verification worker, the verifier itself and the geometry of the password
// ring drawn in the middle of the lock screen.
package auth

import "sync"

// State is the authentication record. The UI appends keystrokes and submits;
// the worker takes submissions and reports the outcome. All methods are safe
// for concurrent use.
type State struct {
	mu        sync.Mutex
	password  []rune
	submitted bool
	failures  int
	busy      bool
}

// View is what the UI may know about the state. It never carries the
// password itself.
type View struct {
	Length    int
	Failures  int
	Verifying bool
}

func NewState() *State {
	return &State{}
}

// Append adds one character to the password.
func (s *State) Append(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = append(s.password, r)
}

// Backspace removes the last character. It is a no-op on an empty buffer.
func (s *State) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.password); n > 0 {
		s.password[n-1] = 0
		s.password = s.password[:n-1]
	}
}

// Clear drops the whole buffer without submitting it.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipe()
}

// Submit marks the current buffer for verification. A submission already
// in flight is not repeated.
func (s *State) Submit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy {
		s.submitted = true
	}
}

func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{Length: len(s.password), Failures: s.failures, Verifying: s.busy || s.submitted}
}

// TakeSubmission returns the pending password and marks the state busy.
// The second result is false when nothing was submitted.
func (s *State) TakeSubmission() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitted || s.busy {
		return "", false
	}
	s.submitted = false
	s.busy = true
	return string(s.password), true
}

// Fail records a rejected password and clears the buffer.
func (s *State) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
	s.busy = false
	s.wipe()
}

// Reset clears the buffer after a verification that could not complete.
// The failure count is unchanged.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.wipe()
}

// Succeed clears the buffer after an accepted password.
func (s *State) Succeed() {
	s.Reset()
}

func (s *State) wipe() {
	for i := range s.password {
		s.password[i] = 0
	}
	s.password = s.password[:0]
}
