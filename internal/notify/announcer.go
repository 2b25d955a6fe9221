package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/playback"
)

const timeout = 5000

// Media is what the "now playing" notification shows.
type Media struct {
	Title   string
	Body    string // artist and album, or empty
	Artwork string
}

// Announcer posts a notification whenever playback starts and a critical
// one when a sink command fails. Each new notification replaces the
// previous one.
type Announcer struct {
	notifier Notifier
	sub      *playback.Subscription
	media    Media
	logger   zerolog.Logger

	mu     sync.Mutex
	lastID uint32

	done chan struct{}
}

// Watch starts announcing events from sub. It stops when the controller is
// closed; Wait blocks until then.
func Watch(n Notifier, sub *playback.Subscription, media Media, logger zerolog.Logger) *Announcer {
	a := &Announcer{
		notifier: n,
		sub:      sub,
		media:    media,
		logger:   logger.With().Str("component", "notify").Logger(),
		done:     make(chan struct{}),
	}
	go a.run()
	return a
}

// Wait blocks until the subscription is closed.
func (a *Announcer) Wait() {
	<-a.done
}

func (a *Announcer) run() {
	defer close(a.done)
	for {
		select {
		case e := <-a.sub.StateChanged:
			if e.Current == playback.IconPause {
				a.post(Notification{
					Title:   a.media.Title,
					Body:    a.media.Body,
					Icon:    a.media.Artwork,
					Timeout: timeout,
					Urgency: UrgencyLow,
				})
			}
		case e := <-a.sub.Error:
			a.post(Notification{
				Title:   a.media.Title,
				Body:    errmsg.Format(errmsg.ForSinkOperation(e.Operation), e.Err),
				Icon:    "dialog-error",
				Timeout: timeout,
				Urgency: UrgencyCritical,
			})
		case <-a.sub.WindChanged:
		case <-a.sub.PositionChanged:
		case <-a.sub.Done:
			a.closeLast()
			return
		}
	}
}

func (a *Announcer) post(n Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n.ReplacesID = a.lastID
	id, err := a.notifier.Notify(n)
	if err != nil {
		a.logger.Debug().Err(err).Msg("notification failed")
		return
	}
	a.lastID = id
}

func (a *Announcer) closeLast() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastID == 0 {
		return
	}
	if err := a.notifier.Close(a.lastID); err != nil {
		a.logger.Debug().Err(err).Msg("close notification")
	}
	a.lastID = 0
}
