package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"reqrelay/internal/core/framing"
	convdom "reqrelay/internal/services/api/conversations/domain"
)

func TestDeliver_AtHomeStartsConversation(t *testing.T) {
	api := newFake()
	api.frames = []framing.Frame{
		framing.Opening(false),
		reply("scaffolded"),
		{Type: framing.KindCodeContext, Files: []string{"/home/project/main.go"}},
		framing.Closing(false),
	}
	out := &outcomes{}
	s := newSession(t, api, SessionOptions{Notifier: out})

	if err := s.Deliver(context.Background(), "Build a todo app\nwith tags"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if s.Location() != "/chat/id1" {
		t.Fatalf("location = %q", s.Location())
	}
	want := []convdom.Message{
		{ID: "id2", Role: "user", Content: "Build a todo app\nwith tags"},
		{ID: "id3", Role: "assistant", Content: "scaffolded"},
	}
	if got := s.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %+v", got)
	}
	if s.Title() != "Build a todo app" || !reflect.DeepEqual(s.Files(), []string{"/home/project/main.go"}) {
		t.Fatalf("title=%q files=%v", s.Title(), s.Files())
	}
	in := api.relays[0]
	if in.Target != "" || in.IsExistingProject == nil || *in.IsExistingProject {
		t.Fatalf("new conversation relay input = %+v", in)
	}
	if !reflect.DeepEqual(out.got, []string{"succeeded"}) {
		t.Fatalf("outcomes = %v", out.got)
	}

	s.Close()
	if got := api.saved["id1"]; len(got) != 2 {
		t.Fatalf("saved = %+v", api.saved)
	}
}

func TestNavigate_CarriedContentDeliveredOnceIntoTarget(t *testing.T) {
	api := newFake()
	api.history["p1"] = []convdom.Message{{ID: "old", Role: "user", Content: "earlier"}}
	api.frames = []framing.Frame{reply("ok")}
	s := newSession(t, api, SessionOptions{})

	if err := s.Navigate(context.Background(), "/chat/p1?initialRequirements=add+search"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if s.Location() != "/chat/p1" {
		t.Fatalf("carried parameter not stripped: %q", s.Location())
	}
	msgs := s.Messages()
	if len(msgs) != 3 || msgs[0].ID != "old" || msgs[1].Content != "add search" {
		t.Fatalf("messages = %+v", msgs)
	}
	in := api.relays[0]
	if in.Target != "p1" || !*in.IsExistingProject {
		t.Fatalf("relay input = %+v", in)
	}

	// revisiting the stripped location delivers nothing
	if err := s.Navigate(context.Background(), s.Location()); err != nil {
		t.Fatalf("revisit: %v", err)
	}
	if len(api.relays) != 1 {
		t.Fatalf("relay ran %d times", len(api.relays))
	}

	s.Close()
	if len(api.saved["p1"]) != 3 {
		t.Fatalf("saved = %+v", api.saved["p1"])
	}
}

func TestNavigate_NewHomeFromWebhook(t *testing.T) {
	api := newFake()
	api.frames = []framing.Frame{reply("hi")}
	s := newSession(t, api, SessionOptions{Location: "/chat/elsewhere"})

	if err := s.Navigate(context.Background(), "/?fromWebhook=true&initialRequirements=x"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if !strings.HasPrefix(s.Location(), "/chat/") || s.Location() == "/chat/elsewhere" {
		t.Fatalf("expected a fresh conversation, got %q", s.Location())
	}
	if len(s.Messages()) != 2 {
		t.Fatalf("messages = %+v", s.Messages())
	}
}

func TestDeliver_RetryDropsUnansweredMessage(t *testing.T) {
	api := newFake()
	api.relayErr = errors.New("engine down")
	out := &outcomes{}
	s := newSession(t, api, SessionOptions{Notifier: out})

	if err := s.Deliver(context.Background(), "first"); err == nil {
		t.Fatalf("expected failure")
	}
	if msgs := s.Messages(); len(msgs) != 1 || msgs[0].Content != "first" {
		t.Fatalf("after failure = %+v", msgs)
	}

	api.relayErr = nil
	api.frames = []framing.Frame{reply("done")}
	if err := s.Deliver(context.Background(), "first again"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Content != "first again" || msgs[1].Content != "done" {
		t.Fatalf("after retry = %+v", msgs)
	}
	if !reflect.DeepEqual(out.got, []string{"failed", "succeeded"}) {
		t.Fatalf("outcomes = %v", out.got)
	}
}

func TestDeliver_NoReplyIsNothing(t *testing.T) {
	api := newFake()
	api.frames = []framing.Frame{framing.Opening(false), reply("  "), framing.Closing(false)}
	out := &outcomes{}
	s := newSession(t, api, SessionOptions{Notifier: out})
	if err := s.Deliver(context.Background(), "x"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if !reflect.DeepEqual(out.got, []string{"nothing"}) {
		t.Fatalf("outcomes = %v", out.got)
	}
}

func TestSave_OnlyWhenGrown(t *testing.T) {
	api := newFake()
	s := newSession(t, api, SessionOptions{})
	two := []convdom.Message{{Role: "user"}, {Role: "assistant"}}

	s.save(snapshot{id: "c", msgs: two})
	s.save(snapshot{id: "c", msgs: two})
	s.save(snapshot{id: "c", msgs: two[:1]})
	s.save(snapshot{id: "", msgs: two})
	if api.saves != 1 {
		t.Fatalf("saves = %d, want 1", api.saves)
	}
	s.save(snapshot{id: "c", msgs: append(two, convdom.Message{Role: "user"})})
	if api.saves != 2 {
		t.Fatalf("saves = %d, want 2", api.saves)
	}
}

func TestTitleOf(t *testing.T) {
	long := strings.Repeat("é", titleRunes+5)
	msgs := []convdom.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "  " + long + "\nsecond"}}
	if got := titleOf(msgs); got != strings.Repeat("é", titleRunes) {
		t.Fatalf("title = %q", got)
	}
	if titleOf(nil) != "" {
		t.Fatalf("empty title expected")
	}
}
