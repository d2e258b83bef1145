// Package domain holds the mailbox entry and the ingest/status contracts
package domain

import "time"

// Entry is the single staged submission
// Target is empty when the submission should start a new conversation
type Entry struct {
	ID        string
	Content   string
	Target    string
	CreatedAt time.Time
	Processed bool
}

// SubmitInput is the ingest body, decoded from JSON or a form post
// Requirements and ProjectID are legacy spellings of Content and Target
type SubmitInput struct {
	Content         string `json:"content,omitempty" form:"content" example:"Build a todo app"`
	Requirements    string `json:"requirements,omitempty" form:"requirements"`
	Target          string `json:"target,omitempty" form:"target" validate:"omitempty,max=200" example:"c0ffee"`
	ProjectID       string `json:"projectId,omitempty" form:"projectId" validate:"omitempty,max=200"`
	MarkAsProcessed bool   `json:"markAsProcessed,omitempty" form:"markAsProcessed"`
	EntryID         string `json:"entryId,omitempty" form:"entryId" validate:"omitempty,uuid"`
}

// Text returns the submitted content, preferring content over the legacy field
func (in SubmitInput) Text() string {
	if in.Content != "" {
		return in.Content
	}
	return in.Requirements
}

// Routing returns the submitted target, preferring target over projectId
func (in SubmitInput) Routing() string {
	if in.Target != "" {
		return in.Target
	}
	return in.ProjectID
}

// Ack acknowledges a submit or a mark-as-processed request
type Ack struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Requirements received"`
	ID      string `json:"id,omitempty" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

// Status is the read-only projection of the mailbox
// pointer fields are null when the mailbox is empty
type Status struct {
	HasEntry  bool    `json:"hasEntry"`
	Processed bool    `json:"processed"`
	CreatedAt *int64  `json:"createdAt"`
	Content   *string `json:"content"`
	Target    *string `json:"target"`
	ID        *string `json:"id"`
}

// StatusOf projects an entry; ok=false yields the empty status
func StatusOf(e Entry, ok bool) Status {
	if !ok {
		return Status{}
	}
	ms := e.CreatedAt.UnixMilli()
	s := Status{
		HasEntry:  true,
		Processed: e.Processed,
		CreatedAt: &ms,
		Content:   &e.Content,
		ID:        &e.ID,
	}
	if e.Target != "" {
		t := e.Target
		s.Target = &t
	}
	return s
}

// Pending reports whether the status describes an entry a poller should deliver
func (s Status) Pending() bool {
	return s.HasEntry && !s.Processed && s.Content != nil && *s.Content != ""
}
