// Package models defines the wire-level types shared between the connection
// manager and the DirectLine transport.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ActivityType identifies the kind of a conversation activity.
type ActivityType string

const (
	ActivityMessage            ActivityType = "message"
	ActivityTyping             ActivityType = "typing"
	ActivityConversationUpdate ActivityType = "conversationUpdate"
	ActivityEvent              ActivityType = "event"
	ActivityEndOfConversation  ActivityType = "endOfConversation"
)

// ChannelAccount identifies a participant in a conversation.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID string `json:"id"`
}

// Attachment represents a card, file, or media attached to an activity.
type Attachment struct {
	ContentType string          `json:"contentType"`
	ContentURL  string          `json:"contentUrl,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	Name        string          `json:"name,omitempty"`
}

// Entity carries structured metadata attached to an activity, such as
// citations or mentions.
type Entity struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"-"`
}

// CardAction is a single suggested action offered to the user.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value,omitempty"`
}

// SuggestedActions is the set of quick-reply actions attached to a message.
type SuggestedActions struct {
	Actions []CardAction `json:"actions,omitempty"`
	To      []string     `json:"to,omitempty"`
}

// Activity is one unit of exchanged conversation content. Inbound activities
// are immutable once received; components that need to annotate one work on
// a copy.
type Activity struct {
	Type         ActivityType         `json:"type"`
	ID           string               `json:"id,omitempty"`
	Timestamp    time.Time            `json:"timestamp,omitempty"`
	From         ChannelAccount       `json:"from"`
	Recipient    *ChannelAccount      `json:"recipient,omitempty"`
	Conversation *ConversationAccount `json:"conversation,omitempty"`
	Text         string               `json:"text,omitempty"`
	Locale       string               `json:"locale,omitempty"`

	// Name and Value carry the payload of event activities.
	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// MembersAdded is set on conversationUpdate activities.
	MembersAdded []ChannelAccount `json:"membersAdded,omitempty"`

	Attachments      []Attachment      `json:"attachments,omitempty"`
	SuggestedActions *SuggestedActions `json:"suggestedActions,omitempty"`
	Entities         []Entity          `json:"entities,omitempty"`

	// ChannelData is the side channel for service-specific metadata,
	// including the optional streaming markers some agent services emit.
	ChannelData map[string]any `json:"channelData,omitempty"`
}

// Clone returns a shallow copy of the activity. Slice and map fields are
// shared with the original, which callers must treat as read-only.
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// IsFrom reports whether the activity was sent by the given account id.
func (a *Activity) IsFrom(id string) bool {
	return a.From.ID == id
}

// ChannelDataBool reads a boolean marker from the activity's channel data.
// Missing or non-boolean values read as false.
func (a *Activity) ChannelDataBool(key string) bool {
	if a.ChannelData == nil {
		return false
	}
	v, ok := a.ChannelData[key].(bool)
	return ok && v
}

// HasEntityType reports whether any attached entity has the given type.
func (a *Activity) HasEntityType(entityType string) bool {
	for _, e := range a.Entities {
		if strings.EqualFold(e.Type, entityType) {
			return true
		}
	}
	return false
}

// HasAttachmentType reports whether any attachment content type contains the
// given fragment (e.g. "citation").
func (a *Activity) HasAttachmentType(fragment string) bool {
	for _, att := range a.Attachments {
		if strings.Contains(strings.ToLower(att.ContentType), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// ActivitySet is the DirectLine frame delivering a batch of activities plus
// the watermark up to which history has been delivered.
type ActivitySet struct {
	Activities []*Activity `json:"activities"`
	Watermark  string      `json:"watermark,omitempty"`
}
