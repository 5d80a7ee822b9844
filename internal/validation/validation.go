// Package validation holds the structural rules for channel and message input.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
)

const (
	MaxChannelNameLength = 100
	MaxMessageLength     = 2000

	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	markupRegex     = regexp.MustCompile(`[<>]`)
)

// ValidateChannelName checks that the trimmed name is 1..MaxChannelNameLength characters.
func ValidateChannelName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.NewValidation("name", "channel name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxChannelNameLength {
		return apperrors.NewValidation("name",
			fmt.Sprintf("channel name too long (max %d characters)", MaxChannelNameLength))
	}
	return nil
}

// ValidateChannelKind rejects kinds outside text, voice and music.
func ValidateChannelKind(kind models.ChannelKind) error {
	if !kind.Valid() {
		return apperrors.NewValidation("type", fmt.Sprintf("invalid channel type: %q", kind))
	}
	return nil
}

// ValidateMusicBot enforces that music channels carry a bot.
func ValidateMusicBot(kind models.ChannelKind, botEnabled bool) error {
	if kind == models.ChannelKindMusic && !botEnabled {
		return apperrors.NewValidation("botEnabled", "music channels require a bot")
	}
	return nil
}

// ValidateMessageContent checks that the trimmed content is 1..MaxMessageLength characters.
func ValidateMessageContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return apperrors.NewValidation("content", "message content is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return apperrors.NewValidation("content",
			fmt.Sprintf("message too long (max %d characters)", MaxMessageLength))
	}
	return nil
}

// ValidatePagination clamps a requested limit to 1..MaxPageLimit, substituting
// DefaultPageLimit for zero or negative values.
func ValidatePagination(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// Slugify lower-cases a channel name and joins whitespace runs with '-'.
func Slugify(name string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// SanitizeInput trims the input and strips angle brackets.
func SanitizeInput(input string) string {
	return markupRegex.ReplaceAllString(strings.TrimSpace(input), "")
}
