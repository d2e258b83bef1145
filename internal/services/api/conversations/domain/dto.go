// Package domain holds conversation history contracts
package domain

import "time"

// Message is one entry of a conversation
type Message struct {
	ID      string `json:"id,omitempty" validate:"omitempty,max=100"`
	Role    string `json:"role" validate:"required,oneof=system user assistant" example:"user"`
	Content string `json:"content" example:"Requirements to implement: ..."`
}

// History is the stored message list of a conversation
type History struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveInput replaces the stored message list
type SaveInput struct {
	Messages []Message `json:"messages" validate:"required,dive"`
}

// SaveOutput acknowledges a save
type SaveOutput struct {
	ID        string    `json:"id"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}
