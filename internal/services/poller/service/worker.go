// Package service contains the poll loop and the conversation session it drives
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"reqrelay/internal/core/route"
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/services/poller/domain"
)

// DefaultInterval is the poll period
const DefaultInterval = 3 * time.Second

// Svc polls the mailbox and delivers pending submissions through a Session
type Svc struct {
	mailbox  domain.Mailbox
	session  *Session
	interval time.Duration
	log      logger.Logger

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// New builds the worker; interval <= 0 uses DefaultInterval
func New(mailbox domain.Mailbox, session *Session, interval time.Duration, log *logger.Logger) *Svc {
	if mailbox == nil || session == nil {
		panic("poller.Svc requires a Mailbox and a Session")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Named("poller")
	}
	return &Svc{mailbox: mailbox, session: session, interval: interval, log: *log}
}

// Run ticks until ctx is done, then waits for the in-flight cycle to return
func (s *Svc) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	defer s.wg.Wait()

	s.log.Info().Dur("interval", s.interval).Str("location", s.session.Location()).Msg("poller started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick starts one cycle in the background unless the previous one is still running
// It reports whether a cycle was started
func (s *Svc) Tick(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug().Msg("previous cycle in flight, skipping tick")
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		s.Cycle(ctx)
	}()
	return true
}

// Wait blocks until a started cycle returns
func (s *Svc) Wait() { s.wg.Wait() }

// Cycle runs status, route, deliver and ack once
// It reports whether an entry was delivered and acknowledged
func (s *Svc) Cycle(ctx context.Context) bool {
	st, err := s.mailbox.Status(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("status check failed")
		return false
	}
	if !st.Pending() {
		return false
	}
	content := *st.Content
	var target, entryID string
	if st.Target != nil {
		target = *st.Target
	}
	if st.ID != nil {
		entryID = *st.ID
	}

	d := route.Decide(target, s.session.Location())
	log := s.log.With().Str("entry_id", entryID).Str("action", d.Action.String()).Str("target", target).Logger()
	log.Info().Msg("pending requirements found")

	if d.Action == route.Stay {
		err = s.session.Deliver(ctx, content)
	} else {
		err = s.session.Navigate(ctx, d.Location(content))
	}
	if err != nil {
		// processed stays unset so a later tick retries
		log.Warn().Err(err).Msg("delivery failed")
		return false
	}

	if err := s.mailbox.Ack(ctx, entryID); err != nil {
		log.Warn().Err(err).Msg("acknowledgement failed")
		return false
	}
	log.Info().Str("location", s.session.Location()).Msg("requirements acknowledged")
	return true
}
