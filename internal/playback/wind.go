package playback

import "time"

// windTimer drives one rewind or fast-forward session.
// A timer is live while it is the controller's current timer; every tick
// re-checks that under the controller lock, so a cancelled timer never
// applies another step even if its tick was already queued.
type windTimer struct {
	dir  WindState
	stop chan struct{}
}

func (t *windTimer) cancel() {
	close(t.stop)
}

func (c *controller) startWindLocked(dir WindState) {
	t := &windTimer{dir: dir, stop: make(chan struct{})}
	c.timer = t
	c.setWindLocked(dir)
	go c.runWind(t, c.opts.WindInterval)
}

// cancelWindLocked stops the live timer, if any, and clears both wind
// highlights.
func (c *controller) cancelWindLocked() {
	if c.timer != nil {
		c.timer.cancel()
		c.timer = nil
	}
	c.setWindLocked(WindIdle)
}

func (c *controller) setWindLocked(next WindState) {
	for _, d := range c.displays {
		d.SetButtonActive(ButtonRewind, next == WindRewinding)
		d.SetButtonActive(ButtonForward, next == WindFastForwarding)
	}
	if next == c.wind {
		return
	}
	prev := c.wind
	c.wind = next
	c.logger.Debug().Stringer("from", prev).Stringer("to", next).Msg("wind")
	c.publishWind(WindChange{Previous: prev, Current: next})
}

func (c *controller) runWind(t *windTimer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed || c.timer != t {
				c.mu.Unlock()
				return
			}
			c.stepLocked(t.dir)
			c.mu.Unlock()
		}
	}
}

// stepLocked applies one wind step, stopping at the media boundaries.
func (c *controller) stepLocked(dir WindState) {
	step := c.opts.WindStep
	pos := c.sink.Position()

	var err error
	switch dir {
	case WindRewinding:
		if pos <= step {
			err = c.stopLocked()
			break
		}
		err = c.seekLocked(pos - step)
	case WindFastForwarding:
		// An unknown length has no reachable end; treat it as the boundary.
		dur := c.sink.Duration()
		if dur <= 0 || pos >= dur-step {
			err = c.stopLocked()
			break
		}
		err = c.seekLocked(pos + step)
	case WindIdle:
	}
	if err != nil {
		c.logger.Warn().Err(err).Stringer("dir", dir).Msg("wind step")
	}
}
