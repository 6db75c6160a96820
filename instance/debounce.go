package instance

import (
	"sync"
	"time"
)

// debouncer runs the last triggered function once no trigger arrived for
// delay. Functions run through post, on the goroutine owning the model.
type debouncer struct {
	delay time.Duration
	post  func(func())

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

func (d *debouncer) trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.post(func() {
			// A trigger or stop after the timer fired wins.
			if d.current(gen) {
				f()
			}
		})
	})
}

func (d *debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.generation
}

// stop cancels a pending function.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
