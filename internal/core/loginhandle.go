package core

import "sync"

// LoginHandle is the completion cell for an in-flight device-authorization
// poll. The session client completes it exactly once; readers either check
// Running or wait on Done.
type LoginHandle struct {
	done chan struct{}
	once sync.Once
	err  error
}

func NewLoginHandle() *LoginHandle {
	return &LoginHandle{done: make(chan struct{})}
}

// Complete resolves the handle. A nil error marks the login as successful.
// Subsequent calls are no-ops.
func (h *LoginHandle) Complete(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Running reports whether the poll is still in flight.
func (h *LoginHandle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Done is closed once the poll resolves.
func (h *LoginHandle) Done() <-chan struct{} {
	return h.done
}

// Err returns the poll outcome. Only valid after Done is closed.
func (h *LoginHandle) Err() error {
	return h.err
}
