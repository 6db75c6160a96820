package puppet

import (
	"context"
	"sync"
)

// replyLock pauses reply processing while held. Lock blocks until the
// processing goroutine is between two batches of replies.
type replyLock struct {
	acquire chan struct{}
	release chan struct{}
}

func (l *replyLock) Lock() {
	l.acquire <- struct{}{}
}

func (l *replyLock) Unlock() {
	l.release <- struct{}{}
}

// RunLockable processes replies and runs functions received on posted on a
// separate goroutine until the connection ends or ctx is done. It returns a
// sync.Locker for mutually exclusive execution with that goroutine: a
// document model changed by the reply handler or the posted functions must
// only be touched while holding the lock. posted may be nil.
//
// The returned channel receives one error value and is closed when
// processing stops. Locking after that blocks forever.
func (c *Connection) RunLockable(ctx context.Context, posted <-chan func()) (sync.Locker, <-chan error) {
	lock := &replyLock{
		acquire: make(chan struct{}),
		release: make(chan struct{}),
	}
	errChannel := make(chan error, 1)

	c.ensureHandler()
	go func() {
		defer close(errChannel)
		for {
			select {
			case <-ctx.Done():
				errChannel <- ctx.Err()
				return
			case _, open := <-c.processSignal:
				if !open {
					errChannel <- c.Err()
					return
				}
				if err := c.Process(); err != nil {
					errChannel <- err
					return
				}
			case f := <-posted:
				f()
			case <-lock.acquire:
				<-lock.release
			}
		}
	}()

	return lock, errChannel
}
