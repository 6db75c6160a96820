package model

// writeGuard marks a mutation in flight. It is a reentrancy detector, not a
// mutex: the model is owned by one goroutine.
type writeGuard struct {
	m  *Model
	op string
}

// lockWrite starts a mutation named op. Starting a second one before the
// first is released panics with a *ReentrancyError.
func (m *Model) lockWrite(op string) *writeGuard {
	if m.write != nil {
		err := &ReentrancyError{Op: op, Holder: m.write.op}
		m.logger.Error("model: reentrant write", "op", op, "holder", m.write.op)
		panic(err)
	}
	g := &writeGuard{m: m, op: op}
	m.write = g
	return g
}

func (g *writeGuard) unlock() {
	if g.m.write == g {
		g.m.write = nil
	}
}

// lockFeedback guards instance feedback named op. The node instance view
// may report feedback while it is notified of a change; any other caller
// needs the write lock.
func (m *Model) lockFeedback(op string) *writeGuard {
	if m.write != nil && m.instanceView != nil && m.delivering == m.instanceView {
		return &writeGuard{m: m, op: op}
	}
	return m.lockWrite(op)
}

// IsWriteLocked reports whether a mutation is currently being dispatched.
func (m *Model) IsWriteLocked() bool {
	return m.write != nil
}
