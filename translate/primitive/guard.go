package primitive

// Guard is a MutexGuard: it owns no places of its own, only a strong
// reference to the Mutex it locked (spec.md §4.4). It is created by a lock
// call and consumed by a drop terminator or by a condvar wait call, both of
// which add the actual unlock arc directly on the Mutex.
type Guard struct {
	mutex *Mutex
}

// NewGuard returns a Guard over m.
func NewGuard(m *Mutex) *Guard {
	return &Guard{mutex: m}
}

// Mutex returns the guard's owning mutex.
func (g *Guard) Mutex() *Mutex { return g.mutex }
