package session

import (
	"sync"
	"time"
)

// Timer is a single cancelable countdown. Arming an armed timer replaces the
// pending countdown.
type Timer interface {
	Arm(d time.Duration, onFire func())
	Cancel()
	// Remaining reports the time left, or false when nothing is armed.
	Remaining() (time.Duration, bool)
}

// RealTimer runs onFire on its own goroutine via time.AfterFunc.
type RealTimer struct {
	mu       sync.Mutex
	t        *time.Timer
	deadline time.Time
}

func NewRealTimer() *RealTimer {
	return &RealTimer{}
}

func (r *RealTimer) Arm(d time.Duration, onFire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.t != nil {
		r.t.Stop()
	}
	r.deadline = time.Now().Add(d)
	var self *time.Timer
	self = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.t == self {
			r.t = nil
		}
		r.mu.Unlock()
		onFire()
	})
	r.t = self
}

func (r *RealTimer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.t != nil {
		r.t.Stop()
		r.t = nil
	}
}

func (r *RealTimer) Remaining() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.t == nil {
		return 0, false
	}
	left := time.Until(r.deadline)
	if left < 0 {
		left = 0
	}
	return left, true
}

// ManualTimer only moves when Advance is called. It lets tests and
// step-driven callers control the countdown deterministically.
type ManualTimer struct {
	mu        sync.Mutex
	armed     bool
	remaining time.Duration
	onFire    func()
}

func NewManualTimer() *ManualTimer {
	return &ManualTimer{}
}

func (m *ManualTimer) Arm(d time.Duration, onFire func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.armed = true
	m.remaining = d
	m.onFire = onFire
}

func (m *ManualTimer) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.armed = false
	m.remaining = 0
	m.onFire = nil
}

func (m *ManualTimer) Remaining() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.remaining, m.armed
}

func (m *ManualTimer) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.armed
}

// Advance moves the clock by d and fires the callback if the countdown ran
// out. The callback runs without the timer lock held.
func (m *ManualTimer) Advance(d time.Duration) {
	m.mu.Lock()
	if !m.armed {
		m.mu.Unlock()
		return
	}
	m.remaining -= d
	if m.remaining > 0 {
		m.mu.Unlock()
		return
	}
	fire := m.onFire
	m.armed = false
	m.remaining = 0
	m.onFire = nil
	m.mu.Unlock()

	if fire != nil {
		fire()
	}
}
