// Package framing defines the relay's event frames and the line protocol they travel in
package framing

import "encoding/json"

// Kind discriminates frames
type Kind string

// Recognized kinds; anything else is ignored by consumers
const (
	KindMessage     Kind = "message"
	KindProgress    Kind = "progress"
	KindCodeContext Kind = "codeContext"
)

// Progress labels
const (
	LabelFileProcessing = "file-processing"
	LabelCodeGeneration = "code-generation"
	LabelDeployment     = "deployment"
	LabelPreview        = "preview"
)

// Progress statuses
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
)

// Frame is one event in the stream. Only the fields of its kind are populated
type Frame struct {
	Type    Kind     `json:"type"`
	Role    string   `json:"role,omitempty"`
	Content string   `json:"content,omitempty"`
	Label   string   `json:"label,omitempty"`
	Status  string   `json:"status,omitempty"`
	Message string   `json:"message,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// MarshalJSON writes every field of f's kind, empty ones included, so an empty
// message still carries "content":""
func (f Frame) MarshalJSON() ([]byte, error) {
	switch f.Type {
	case KindMessage:
		return json.Marshal(struct {
			Type    Kind   `json:"type"`
			Role    string `json:"role"`
			Content string `json:"content"`
		}{f.Type, f.Role, f.Content})
	case KindProgress:
		return json.Marshal(struct {
			Type    Kind   `json:"type"`
			Label   string `json:"label"`
			Status  string `json:"status"`
			Message string `json:"message"`
		}{f.Type, f.Label, f.Status, f.Message})
	case KindCodeContext:
		files := f.Files
		if files == nil {
			files = []string{}
		}
		return json.Marshal(struct {
			Type  Kind     `json:"type"`
			Files []string `json:"files"`
		}{f.Type, files})
	}
	type plain Frame
	return json.Marshal(plain(f))
}

// Known reports whether k is a kind the relay forwards
func Known(k Kind) bool {
	switch k {
	case KindMessage, KindProgress, KindCodeContext:
		return true
	}
	return false
}

// Project keeps only the fields that belong to f's kind
func Project(f Frame) Frame {
	switch f.Type {
	case KindMessage:
		return Frame{Type: f.Type, Role: f.Role, Content: f.Content}
	case KindProgress:
		return Frame{Type: f.Type, Label: f.Label, Status: f.Status, Message: f.Message}
	case KindCodeContext:
		return Frame{Type: f.Type, Files: f.Files}
	}
	return Frame{Type: f.Type}
}

// Progress builds a progress frame
func Progress(label, status, msg string) Frame {
	return Frame{Type: KindProgress, Label: label, Status: status, Message: msg}
}

// Opening is the synthetic frame sent before anything is forwarded
func Opening(existing bool) Frame {
	msg := "File processed successfully"
	if existing {
		msg = "Feature requests processed successfully"
	}
	return Progress(LabelFileProcessing, StatusComplete, msg)
}

// Closing is the synthetic frame sent after the inbound stream ends
func Closing(existing bool) Frame {
	msg := "Code generation and deployment complete"
	if existing {
		msg = "Feature implementation and deployment complete"
	}
	return Progress(LabelPreview, StatusComplete, msg)
}
