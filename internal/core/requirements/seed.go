// Package requirements turns a free-text submission into the conversation seed handed to the chat engine
package requirements

import (
	"strconv"
	"strings"

	"reqrelay/internal/core/normalize"
	perr "reqrelay/internal/platform/errors"
)

// PromptID tags seeds produced here so the engine can pick its prompt template
const PromptID = "file-input"

// DefaultWorkDir is the project root files are placed under
const DefaultWorkDir = "/home/project"

// Message is a role tagged chat message
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Seed is the unit handed to the chat engine
type Seed struct {
	Lines               []string          `json:"-"`
	Messages            []Message         `json:"messages"`
	Files               map[string]string `json:"files"`
	ContextOptimization bool              `json:"contextOptimization"`
	PromptID            string            `json:"promptId"`
	ExistingProject     bool              `json:"-"`
}

// ErrEmptyInput is returned when a submission holds no usable lines
var ErrEmptyInput = perr.EmptyInputf("no valid requirements found")

// Lines splits content into trimmed, non-empty, NFC normalized lines
func Lines(content string) []string { return normalize.Lines(content) }

// Build synthesizes the two message seed and its auxiliary files
// workDir defaults to DefaultWorkDir when empty
func Build(content string, existing bool, workDir string) (Seed, error) {
	lines := Lines(content)
	if len(lines) == 0 {
		return Seed{}, ErrEmptyInput
	}
	if workDir == "" {
		workDir = DefaultWorkDir
	}
	workDir = strings.TrimRight(workDir, "/")

	list := numbered(lines)
	p := pick(existing)

	return Seed{
		Lines: lines,
		Messages: []Message{
			{ID: "system", Role: "system", Content: p.system},
			{ID: "user", Role: "user", Content: p.userHead + "\n\n" + list + "\n\n" + p.userTail},
		},
		Files: map[string]string{
			workDir + "/requirements.txt": strings.Join(lines, "\n"),
			workDir + "/README.md":        p.readme + "\n\n" + list,
		},
		ContextOptimization: true,
		PromptID:            PromptID,
		ExistingProject:     existing,
	}, nil
}

func numbered(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(l)
	}
	return b.String()
}
