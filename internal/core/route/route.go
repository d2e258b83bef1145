// Package route decides where a polled submission should be delivered and carries
// its content across a redirect
package route

import (
	"net/url"
	"strings"
)

// Home is the location of the new-conversation page
const Home = "/"

const (
	chatPrefix   = "/chat/"
	carriedParam = "initialRequirements"
	webhookParam = "fromWebhook"
)

// Action is the kind of routing decision
type Action uint8

const (
	// Stay delivers in the current conversation
	Stay Action = iota
	// RedirectTo moves to the target conversation before delivering
	RedirectTo
	// RedirectToNewHome moves to the home page to start a new conversation
	RedirectToNewHome
)

func (a Action) String() string {
	switch a {
	case RedirectTo:
		return "redirect"
	case RedirectToNewHome:
		return "redirect_new_home"
	default:
		return "stay"
	}
}

// Decision is the router output
type Decision struct {
	Action Action
	Target string // set for RedirectTo
}

// ConversationOf returns the conversation id a location points at, or "" for home and other pages
func ConversationOf(location string) string {
	p := location
	if u, err := url.Parse(location); err == nil {
		p = u.Path
	}
	if !strings.HasPrefix(p, chatPrefix) {
		return ""
	}
	id := strings.TrimPrefix(p, chatPrefix)
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	return id
}

// ConversationPath returns the location of conversation id
func ConversationPath(id string) string { return chatPrefix + url.PathEscape(id) }

// Decide picks where a submission for target should go given the current location
// An empty target means "start a new conversation"
func Decide(target, current string) Decision {
	target = strings.TrimSpace(target)
	here := ConversationOf(current)
	switch {
	case target != "" && target != here:
		return Decision{Action: RedirectTo, Target: target}
	case target == "" && here != "":
		return Decision{Action: RedirectToNewHome}
	default:
		return Decision{Action: Stay}
	}
}

// Location returns the redirect location carrying content, or "" for Stay
func (d Decision) Location(content string) string {
	switch d.Action {
	case RedirectTo:
		return ConversationPath(d.Target) + "?" + carriedParam + "=" + url.QueryEscape(content)
	case RedirectToNewHome:
		return Home + "?" + carriedParam + "=" + url.QueryEscape(content) + "&" + webhookParam + "=true"
	}
	return ""
}

// TakeCarried decodes the carried content from location exactly once and returns
// the location with the parameter removed so it cannot be replayed
func TakeCarried(location string) (content, stripped string, ok bool) {
	u, err := url.Parse(location)
	if err != nil {
		return "", location, false
	}
	q := u.Query()
	if !q.Has(carriedParam) {
		return "", location, false
	}
	content = q.Get(carriedParam)
	q.Del(carriedParam)
	u.RawQuery = q.Encode()
	return content, u.String(), true
}

// FromWebhook reports whether location was produced by a new-home redirect
func FromWebhook(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Query().Get(webhookParam) == "true"
}
