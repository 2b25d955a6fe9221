package playback

import "time"

// eventBufferSize bounds each channel. A subscriber that falls further
// behind misses events rather than stalling the controller.
const eventBufferSize = 16

// Subscription is one consumer's view of controller events. Receive from
// the exported channels until Done is closed.
type Subscription struct {
	StateChanged    <-chan StateChange
	WindChanged     <-chan WindChange
	PositionChanged <-chan PositionChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	state    chan StateChange
	wind     chan WindChange
	position chan PositionChange
	errs     chan ErrorEvent
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		wind:     make(chan WindChange, eventBufferSize),
		position: make(chan PositionChange, eventBufferSize),
		errs:     make(chan ErrorEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.WindChanged, s.PositionChanged = s.state, s.wind, s.position
	s.Error, s.Done = s.errs, s.done
	return s
}

// offer delivers v unless ch is full.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func (s *Subscription) close()                       { close(s.done) }
func (s *Subscription) sendState(e StateChange)      { offer(s.state, e) }
func (s *Subscription) sendWind(e WindChange)        { offer(s.wind, e) }
func (s *Subscription) sendError(e ErrorEvent)       { offer(s.errs, e) }
func (s *Subscription) sendPosition(p time.Duration) { offer(s.position, PositionChange{Position: p}) }
