// internal/playback/mock.go
package playback

import (
	"sync"
	"time"
)

// MockSink is a test double for MediaSink.
// Notifications are only delivered when a test calls FireTimeUpdate or
// FireEnded.
type MockSink struct {
	mu sync.Mutex

	paused   bool
	position time.Duration
	duration time.Duration

	playErr  error
	pauseErr error
	seekErr  error

	playCalls  int
	pauseCalls int
	seekCalls  []time.Duration

	timeUpdate []func()
	ended      []func()
}

// NewMockSink creates a paused sink at position 0 with the given duration.
func NewMockSink(duration time.Duration) *MockSink {
	return &MockSink{paused: true, duration: duration}
}

func (m *MockSink) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.paused = false
	return nil
}

func (m *MockSink) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.paused = true
	return nil
}

func (m *MockSink) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *MockSink) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MockSink) SetPosition(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	if m.seekErr != nil {
		return m.seekErr
	}
	m.position = pos
	return nil
}

func (m *MockSink) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MockSink) OnTimeUpdate(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeUpdate = append(m.timeUpdate, fn)
}

func (m *MockSink) OnEnded(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, fn)
}

// Test helpers

func (m *MockSink) SetCurrent(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

func (m *MockSink) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *MockSink) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

func (m *MockSink) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *MockSink) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

func (m *MockSink) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *MockSink) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *MockSink) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// FireTimeUpdate delivers a time update to every registered callback.
func (m *MockSink) FireTimeUpdate() {
	m.mu.Lock()
	fns := append([]func(){}, m.timeUpdate...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// FireEnded delivers an end-of-media notification.
func (m *MockSink) FireEnded() {
	m.mu.Lock()
	fns := append([]func(){}, m.ended...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Verify MockSink implements MediaSink at compile time.
var _ MediaSink = (*MockSink)(nil)

// MockDisplay is a test double for Display that records the last value of
// every element.
type MockDisplay struct {
	mu sync.Mutex

	timeText string
	icon     Icon
	active   map[Button]bool
	fill     float64
	width    float64
	left     float64
	right    float64
}

// NewMockDisplay creates a display whose bar spans [left, left+width).
func NewMockDisplay(left, width float64) *MockDisplay {
	return &MockDisplay{
		active: make(map[Button]bool),
		width:  width,
		left:   left,
		right:  left + width,
	}
}

func (d *MockDisplay) SetTimeText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeText = text
}

func (d *MockDisplay) SetPlayIcon(icon Icon) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.icon = icon
}

func (d *MockDisplay) SetButtonActive(b Button, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active[b] = active
}

func (d *MockDisplay) SeekBarWidth() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width
}

func (d *MockDisplay) SetSeekFill(width float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fill = width
}

func (d *MockDisplay) SeekBarBounds() (left, right float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.left, d.right
}

// Test helpers

func (d *MockDisplay) TimeText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timeText
}

func (d *MockDisplay) Icon() Icon {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.icon
}

func (d *MockDisplay) Active(b Button) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active[b]
}

func (d *MockDisplay) Fill() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fill
}

// SetBounds overrides the bar edges reported to the controller.
func (d *MockDisplay) SetBounds(left, right float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.left, d.right = left, right
}

// Verify MockDisplay implements Display at compile time.
var _ Display = (*MockDisplay)(nil)
