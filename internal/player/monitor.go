package player

import (
	"sync"
	"time"
)

// monitor turns position polling and end-of-stream signals into sink
// notifications, all delivered from its own goroutine.
type monitor struct {
	interval time.Duration
	position func() time.Duration

	pokeCh  chan struct{}
	endedCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newMonitor(interval time.Duration, position func() time.Duration) *monitor {
	return &monitor{
		interval: interval,
		position: position,
		pokeCh:   make(chan struct{}, 1),
		endedCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// poke requests an immediate time update (after a seek).
func (m *monitor) poke() {
	select {
	case m.pokeCh <- struct{}{}:
	default:
	}
}

// signalEnded is safe to call from the speaker callback.
func (m *monitor) signalEnded() {
	select {
	case m.endedCh <- struct{}{}:
	default:
	}
}

func (m *monitor) stop() {
	m.once.Do(func() { close(m.done) })
}

func (m *monitor) run(onTimeUpdate, onEnded func()) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := time.Duration(-1)
	for {
		select {
		case <-m.done:
			return
		case <-m.pokeCh:
			last = m.position()
			onTimeUpdate()
		case <-m.endedCh:
			last = m.position()
			onTimeUpdate()
			onEnded()
		case <-ticker.C:
			if pos := m.position(); pos != last {
				last = pos
				onTimeUpdate()
			}
		}
	}
}
