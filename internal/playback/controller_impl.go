// internal/playback/controller_impl.go
package playback

import (
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultWindStep     = 3 * time.Second
	DefaultWindInterval = 200 * time.Millisecond
)

// Options configures a controller. Zero values select the defaults.
type Options struct {
	WindStep     time.Duration
	WindInterval time.Duration
	Logger       *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.WindStep <= 0 {
		o.WindStep = DefaultWindStep
	}
	if o.WindInterval <= 0 {
		o.WindInterval = DefaultWindInterval
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Verify controller implements Controller at compile time.
var _ Controller = (*controller)(nil)

type controller struct {
	mu sync.Mutex

	sink     MediaSink
	displays []Display
	opts     Options
	logger   zerolog.Logger

	wind  WindState
	icon  Icon
	timer *windTimer

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// New creates a controller over sink and paints every display.
// The first display is the primary one: SeekTo clicks are resolved against
// its seek bar.
func New(sink MediaSink, opts Options, displays ...Display) Controller {
	opts = opts.withDefaults()
	c := &controller{
		sink:     sink,
		displays: displays,
		opts:     opts,
		logger:   opts.Logger.With().Str("component", "playback").Logger(),
		icon:     IconPlay,
	}
	if !sink.Paused() {
		c.icon = IconPause
	}

	sink.OnTimeUpdate(c.handleTimeUpdate)
	sink.OnEnded(c.handleEnded)

	c.Refresh()
	return c
}

// TogglePlayPause cancels any wind and flips between playing and paused.
func (c *controller) TogglePlayPause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.cancelWindLocked()
	if c.sink.Paused() {
		c.setIconLocked(IconPause)
		return c.checkLocked("play", c.sink.Play())
	}
	c.setIconLocked(IconPlay)
	return c.checkLocked("pause", c.sink.Pause())
}

// Stop pauses and rewinds to the start.
func (c *controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.stopLocked()
}

func (c *controller) stopLocked() error {
	errPause := c.checkLocked("pause", c.sink.Pause())
	errSeek := c.seekLocked(0)
	c.setIconLocked(IconPlay)
	c.cancelWindLocked()
	return errors.Combine(errPause, errSeek)
}

// ToggleRewind starts or stops rewinding.
func (c *controller) ToggleRewind() error {
	return c.toggleWind(WindRewinding)
}

// ToggleForward starts or stops fast-forwarding.
func (c *controller) ToggleForward() error {
	return c.toggleWind(WindFastForwarding)
}

func (c *controller) toggleWind(dir WindState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	if c.wind == dir {
		c.cancelWindLocked()
		c.setIconLocked(IconPause)
		return c.checkLocked("play", c.sink.Play())
	}

	// Clears the opposite direction, or nothing when idle.
	c.cancelWindLocked()

	err := c.checkLocked("pause", c.sink.Pause())
	c.startWindLocked(dir)
	return err
}

// SeekTo seeks to the position under clickX on the primary display's bar
// and resumes playback.
func (c *controller) SeekTo(clickX float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if len(c.displays) == 0 {
		return ErrNoDisplay
	}
	left, right := c.displays[0].SeekBarBounds()
	return c.seekFractionLocked(SeekFraction(clickX, left, right))
}

// SeekToFraction seeks to fraction f (clamped to [0, 1]) of the media and
// resumes playback.
func (c *controller) SeekToFraction(f float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.seekFractionLocked(f)
}

// SeekToPosition seeks to pos (clamped to the media) and resumes playback.
func (c *controller) SeekToPosition(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	dur := c.sink.Duration()
	if dur <= 0 {
		return ErrDurationUnknown
	}
	return c.seekAndPlayLocked(min(max(pos, 0), dur))
}

func (c *controller) seekFractionLocked(f float64) error {
	dur := c.sink.Duration()
	if dur <= 0 {
		return ErrDurationUnknown
	}
	return c.seekAndPlayLocked(PositionAt(f, dur))
}

func (c *controller) seekAndPlayLocked(pos time.Duration) error {
	c.cancelWindLocked()
	errSeek := c.seekLocked(pos)
	c.setIconLocked(IconPause)
	errPlay := c.checkLocked("play", c.sink.Play())
	return errors.Combine(errSeek, errPlay)
}

// seekLocked moves the sink and repaints the time readout.
func (c *controller) seekLocked(pos time.Duration) error {
	err := c.checkLocked("seek", c.sink.SetPosition(pos))
	c.renderTimeLocked()
	c.publishPosition(c.sink.Position())
	return err
}

// Refresh repaints every display from the sink.
func (c *controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, d := range c.displays {
		d.SetPlayIcon(c.icon)
		for _, b := range Buttons {
			wb, ok := windButton(c.wind)
			d.SetButtonActive(b, ok && wb == b)
		}
	}
	c.renderTimeLocked()
}

// Snapshot returns the current overlay state.
func (c *controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.sink.Position()
	dur := c.sink.Duration()
	return Snapshot{
		Wind:     c.wind,
		Icon:     c.icon,
		Paused:   c.sink.Paused(),
		Position: pos,
		Duration: dur,
		TimeText: FormatElapsed(pos),
		Fraction: ProgressWidth(pos, dur, 1),
	}
}

func (c *controller) handleTimeUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.renderTimeLocked()
}

func (c *controller) handleEnded() {
	if err := c.Stop(); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Error().Err(err).Msg("stop at end of media")
	}
}

func (c *controller) renderTimeLocked() {
	pos := c.sink.Position()
	dur := c.sink.Duration()
	text := FormatElapsed(pos)
	for _, d := range c.displays {
		d.SetTimeText(text)
		d.SetSeekFill(ProgressWidth(pos, dur, d.SeekBarWidth()))
	}
}

func (c *controller) setIconLocked(icon Icon) {
	for _, d := range c.displays {
		d.SetPlayIcon(icon)
	}
	if icon == c.icon {
		return
	}
	prev := c.icon
	c.icon = icon
	c.publishState(StateChange{Previous: prev, Current: icon})
}

// checkLocked reports a failed sink call to subscribers and returns it wrapped.
func (c *controller) checkLocked(op string, err error) error {
	if err == nil {
		return nil
	}
	c.logger.Error().Err(err).Str("op", op).Msg("sink command failed")
	c.publishError(ErrorEvent{Operation: op, Err: err})
	return errors.Wrapf(err, "%s", op)
}

// Subscribe creates a new event subscription.
func (c *controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close stops any wind timer and closes every subscription.
// The sink is left to its owner.
func (c *controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.cancel()
		c.timer = nil
	}
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return nil
}

func (c *controller) publishState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(e)
	}
}

func (c *controller) publishWind(e WindChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendWind(e)
	}
}

func (c *controller) publishPosition(pos time.Duration) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendPosition(pos)
	}
}

func (c *controller) publishError(e ErrorEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendError(e)
	}
}
