// Package domain holds the relay request and ledger records
package domain

import (
	"strings"
	"time"
)

// DefaultFileName names submissions that arrive without one
const DefaultFileName = "webhook-requirements.txt"

// RelayInput is the relay body; Requirements and ProjectID are legacy spellings
type RelayInput struct {
	Content           string `json:"content,omitempty" form:"content" example:"Add dark mode"`
	Requirements      string `json:"requirements,omitempty" form:"requirements"`
	Target            string `json:"target,omitempty" form:"target" validate:"omitempty,max=200"`
	ProjectID         string `json:"projectId,omitempty" form:"projectId" validate:"omitempty,max=200"`
	IsExistingProject *bool  `json:"isExistingProject,omitempty" form:"isExistingProject"`
	FileName          string `json:"fileName,omitempty" form:"fileName" validate:"omitempty,max=255"`
}

// Text returns the content, preferring content over the legacy field
func (in RelayInput) Text() string {
	if in.Content != "" {
		return in.Content
	}
	return in.Requirements
}

// Routing returns the target, preferring target over projectId
func (in RelayInput) Routing() string {
	if t := strings.TrimSpace(in.Target); t != "" {
		return t
	}
	return strings.TrimSpace(in.ProjectID)
}

// Existing reports the project flag, defaulting to whether a target was given
func (in RelayInput) Existing() bool {
	if in.IsExistingProject != nil {
		return *in.IsExistingProject
	}
	return in.Routing() != ""
}

// File returns the submitted file name or the default
func (in RelayInput) File() string {
	if f := strings.TrimSpace(in.FileName); f != "" {
		return f
	}
	return DefaultFileName
}

// FrameRecord is one outward frame as kept in the ledger
type FrameRecord struct {
	RelayID string
	Seq     uint32
	At      time.Time
	Kind    string
	Label   string
	Status  string
	Payload string
}
