// Package models contains the data models and DTOs shared by the catalog, the music bot and the API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelKind is the kind of chat destination a channel represents.
type ChannelKind string

// ChannelKind constants define the supported channel kinds.
const (
	ChannelKindText  ChannelKind = "text"
	ChannelKindVoice ChannelKind = "voice"
	ChannelKindMusic ChannelKind = "music"
)

// ChannelKinds lists every valid kind in display order.
var ChannelKinds = []ChannelKind{ChannelKindText, ChannelKindVoice, ChannelKindMusic}

// Valid reports whether k is one of the known kinds.
func (k ChannelKind) Valid() bool {
	for _, known := range ChannelKinds {
		if k == known {
			return true
		}
	}
	return false
}

// UncategorizedCategory is used wherever a channel has no category.
const UncategorizedCategory = "Uncategorized"

// ChannelRecord represents one chat channel, real or synthetic.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelRecord struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        ChannelKind `json:"type"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	ServerID    string      `json:"serverId"`
	MemberCount int         `json:"memberCount"`
	IsPublic    bool        `json:"isPublic"`
	BotEnabled  bool        `json:"botEnabled"`
	BotType     string      `json:"botType,omitempty"`
	CreatedBy   string      `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// EffectiveCategory returns the category, substituting UncategorizedCategory for an empty one.
func (c *ChannelRecord) EffectiveCategory() string {
	if c.Category == "" {
		return UncategorizedCategory
	}
	return c.Category
}

// ChannelInput carries the caller-supplied fields for a new channel.
// Nil pointers mean "use the default".
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelInput struct {
	Name        string       `json:"name"`
	Kind        *ChannelKind `json:"type,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	ServerID    *string      `json:"serverId,omitempty"`
	MemberCount *int         `json:"memberCount,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
	BotEnabled  *bool        `json:"botEnabled,omitempty"`
	BotType     *string      `json:"botType,omitempty"`
	CreatedBy   *string      `json:"createdBy,omitempty"`
}

// ChannelPatch is a partial update. Only non-nil fields are applied.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelPatch struct {
	Name        *string      `json:"name,omitempty"`
	Kind        *ChannelKind `json:"type,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	MemberCount *int         `json:"memberCount,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
	BotEnabled  *bool        `json:"botEnabled,omitempty"`
	BotType     *string      `json:"botType,omitempty"`
}

// ChannelFilters holds the equality predicates applied to a listing.
// A nil field is inactive.
type ChannelFilters struct {
	Kind       *ChannelKind `json:"type,omitempty"`
	Category   *string      `json:"category,omitempty"`
	BotEnabled *bool        `json:"botEnabled,omitempty"`
	IsPublic   *bool        `json:"isPublic,omitempty"`
}

// Pagination describes where a page sits within a filtered listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasMore     bool `json:"hasMore"`
}

// ChannelStats aggregates the full catalog.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChannelStats struct {
	Total      int                 `json:"total"`
	Loaded     int                 `json:"loaded"`
	ByType     map[ChannelKind]int `json:"byType"`
	ByCategory map[string]int      `json:"byCategory"`
	WithBots   int                 `json:"withBots"`
	Public     int                 `json:"public"`
	Private    int                 `json:"private"`
}

// ChannelTemplate is a named preset of channel defaults.
type ChannelTemplate struct {
	Name        string      `json:"name"`
	Kind        ChannelKind `json:"type"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	BotEnabled  bool        `json:"botEnabled,omitempty"`
	BotType     string      `json:"botType,omitempty"`
}

// QueuedTrack is one entry of a channel's music queue.
type QueuedTrack struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    *int   `json:"duration,omitempty"`
	RequestedBy string `json:"requestedBy"`
}

// MessageType distinguishes user messages from bot replies.
type MessageType string

// MessageType constants.
const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// BotAction records what a bot command did, attached to bot replies.
type BotAction struct {
	Command string        `json:"command"`
	Track   *QueuedTrack  `json:"track,omitempty"`
	Queue   []QueuedTrack `json:"queue,omitempty"`
}

// Message is a chat message stored in a channel.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Message struct {
	ID        uuid.UUID   `json:"id"`
	ChannelID string      `json:"channelId"`
	AuthorID  string      `json:"authorId"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	BotAction *BotAction  `json:"botAction,omitempty"`
	Edited    bool        `json:"edited"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// EventType names a change pushed to subscribers.
type EventType string

// EventType constants double as AMQP routing keys.
const (
	EventChannelCreated EventType = "channel.created"
	EventChannelUpdated EventType = "channel.updated"
	EventChannelDeleted EventType = "channel.deleted"
	EventCatalogReset   EventType = "catalog.reset"
	EventMessageCreated EventType = "message.created"
	EventMessageUpdated EventType = "message.updated"
	EventMessageDeleted EventType = "message.deleted"
	EventQueueUpdated   EventType = "queue.updated"
)

// ChangeEvent is the envelope published for every state change.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChangeEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	ChannelID  string    `json:"channelId,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewChangeEvent stamps a new event with a fresh id and the current time.
func NewChangeEvent(eventType EventType, channelID string, payload any) *ChangeEvent {
	return &ChangeEvent{
		ID:         uuid.New(),
		Type:       eventType,
		ChannelID:  channelID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
