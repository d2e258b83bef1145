package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"reqrelay/internal/core/framing"
	"reqrelay/internal/core/route"
	"reqrelay/internal/core/sampler"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/services/poller/domain"

	convdom "reqrelay/internal/services/api/conversations/domain"
	reldom "reqrelay/internal/services/api/relay/domain"

	"github.com/google/uuid"
)

const titleRunes = 80

// SessionOptions configures a Session; zero values pick defaults
type SessionOptions struct {
	Location     string        // initial location, default route.Home
	SampleWindow time.Duration // persistence window, default sampler.DefaultWindow
	SaveTimeout  time.Duration // bound on one history save, default 5s
	Notifier     domain.Notifier
	Log          *logger.Logger
	NewID        func() string
}

// Session is a headless conversation view: it owns a location, the active
// conversation's message list and the sampled persistence of that list
// Deliveries are serialized; the sampler fires on its own timer
type Session struct {
	client domain.Client
	notify domain.Notifier
	log    logger.Logger
	newID  func() string
	saveTO time.Duration

	mu       sync.Mutex // guards the fields below and serializes deliveries
	location string
	convID   string
	msgs     []convdom.Message
	files    []string
	title    string
	retry    bool
	fresh    bool // convID was allocated here and the engine has not accepted it yet

	persist *sampler.Sampler[snapshot]
	stored  map[string]int
	storeMu sync.Mutex
}

type snapshot struct {
	id   string
	msgs []convdom.Message
}

// NewSession builds a session over client
func NewSession(client domain.Client, o SessionOptions) *Session {
	if client == nil {
		panic("poller.Session requires a non nil Client")
	}
	if o.Location == "" {
		o.Location = route.Home
	}
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 5 * time.Second
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Log == nil {
		o.Log = logger.Named("session")
	}
	if o.Notifier == nil {
		o.Notifier = LogNotifier(*o.Log)
	}
	s := &Session{
		client:   client,
		notify:   o.Notifier,
		log:      *o.Log,
		newID:    o.NewID,
		saveTO:   o.SaveTimeout,
		location: o.Location,
		convID:   route.ConversationOf(o.Location),
		stored:   map[string]int{},
	}
	s.persist = sampler.New(o.SampleWindow, s.save)
	return s
}

// Location returns the current location
func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Messages returns a copy of the active conversation's messages
func (s *Session) Messages() []convdom.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]convdom.Message(nil), s.msgs...)
}

// Files returns the code context reported by the last delivery
func (s *Session) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...)
}

// Title returns the conversation title derived from its first user message
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Deliver sends content into the conversation at the current location
// At home a new conversation is started; the location moves to it once the
// engine has accepted the first message
func (s *Session) Deliver(ctx context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliverLocked(ctx, content)
}

// Navigate moves to location and, when it carries content, delivers it once
// The carried parameter is stripped so the location can be revisited safely
func (s *Session) Navigate(ctx context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, stripped, carried := route.TakeCarried(location)
	if err := s.switchTo(ctx, stripped); err != nil {
		return err
	}
	if !carried {
		return nil
	}
	if route.FromWebhook(stripped) {
		s.log.Debug().Msg("landed on home from a webhook redirect")
	}
	return s.deliverLocked(ctx, content)
}

// Close flushes pending persistence and stops the sampler
func (s *Session) Close() {
	s.persist.Flush()
	s.persist.Stop()
}

// switchTo replaces the active conversation with the one at location
func (s *Session) switchTo(ctx context.Context, location string) error {
	id := route.ConversationOf(location)
	s.location = location
	if id == s.convID {
		return nil
	}
	// the previous conversation's pending snapshot belongs to it, not the new one
	s.persist.Flush()

	s.convID, s.msgs, s.files, s.title, s.retry, s.fresh = id, nil, nil, "", false, false
	if id == "" {
		return nil
	}
	h, err := s.client.LoadMessages(ctx, id)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		s.log.Debug().Str("conversation_id", id).Msg("no stored history")
	case err != nil:
		return err
	default:
		s.msgs = h.Messages
		s.title = titleOf(h.Messages)
		s.markStored(id, len(h.Messages))
	}
	return nil
}

func (s *Session) deliverLocked(ctx context.Context, content string) error {
	if s.convID == "" {
		s.convID, s.fresh = s.newID(), true
	}
	// a retry from home reuses the pending id and still asks for a new project
	existing := !s.fresh
	if s.retry && len(s.msgs) > 0 {
		// the previous attempt left an unanswered message behind
		s.msgs = s.msgs[:len(s.msgs)-1]
	}
	s.retry = false

	s.msgs = append(s.msgs, convdom.Message{ID: s.newID(), Role: "user", Content: content})
	if s.title == "" {
		s.title = titleOf(s.msgs)
	}
	s.touch()

	in := reldom.RelayInput{Content: content, IsExistingProject: &existing}
	if existing {
		in.Target = s.convID
	}
	replies := 0
	err := s.client.Relay(ctx, in, func(f framing.Frame) error {
		switch f.Type {
		case framing.KindMessage:
			if strings.TrimSpace(f.Content) == "" {
				return nil
			}
			role := f.Role
			if role == "" {
				role = "assistant"
			}
			s.msgs = append(s.msgs, convdom.Message{ID: s.newID(), Role: role, Content: f.Content})
			replies++
			s.touch()
		case framing.KindCodeContext:
			s.files = append([]string(nil), f.Files...)
		case framing.KindProgress:
			s.log.Debug().Str("label", f.Label).Str("status", f.Status).Msg(f.Message)
		}
		return nil
	})

	switch {
	case err != nil:
		if replies == 0 {
			s.retry = true
		} else {
			s.settle()
		}
		s.notify.Notify(domain.Failed, s.convID, err)
		return err
	case replies == 0:
		s.settle()
		s.notify.Notify(domain.Nothing, s.convID, nil)
	default:
		s.settle()
		s.notify.Notify(domain.Succeeded, s.convID, nil)
	}
	return nil
}

// settle moves the location into a freshly started conversation; caller holds mu
func (s *Session) settle() {
	if s.fresh {
		s.fresh = false
		s.location = route.ConversationPath(s.convID)
	}
}

// touch hands the current list to the sampler; caller holds mu
func (s *Session) touch() {
	s.persist.Call(snapshot{id: s.convID, msgs: append([]convdom.Message(nil), s.msgs...)})
}

// save persists snap when its conversation has grown since the last stored snapshot
func (s *Session) save(snap snapshot) {
	if snap.id == "" || !s.grown(snap.id, len(snap.msgs)) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTO)
	defer cancel()
	if _, err := s.client.SaveMessages(ctx, snap.id, snap.msgs); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Str("conversation_id", snap.id).Int("messages", len(snap.msgs)).Msg("history save failed")
		}
		return
	}
	s.markStored(snap.id, len(snap.msgs))
}

func (s *Session) grown(id string, n int) bool {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return n > s.stored[id]
}

func (s *Session) markStored(id string, n int) {
	s.storeMu.Lock()
	if n > s.stored[id] {
		s.stored[id] = n
	}
	s.storeMu.Unlock()
}

func titleOf(msgs []convdom.Message) string {
	for _, m := range msgs {
		if m.Role != "user" {
			continue
		}
		line, _, _ := strings.Cut(strings.TrimSpace(m.Content), "\n")
		if r := []rune(line); len(r) > titleRunes {
			line = string(r[:titleRunes])
		}
		return line
	}
	return ""
}
