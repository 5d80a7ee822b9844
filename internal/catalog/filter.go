package catalog

import (
	"strings"

	"github.com/corvid-chat/corvid/internal/models"
)

// Matches reports whether rec passes the search term and every active filter.
func Matches(rec *models.ChannelRecord, search string, filters models.ChannelFilters) bool {
	return matchesSearch(rec, strings.ToLower(search)) && matchesFilters(rec, filters)
}

// matchesSearch expects an already lower-cased term.
func matchesSearch(rec *models.ChannelRecord, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Name), term) ||
		strings.Contains(strings.ToLower(rec.Description), term)
}

func matchesFilters(rec *models.ChannelRecord, f models.ChannelFilters) bool {
	if f.Kind != nil && rec.Kind != *f.Kind {
		return false
	}
	if f.Category != nil && rec.EffectiveCategory() != *f.Category {
		return false
	}
	if f.BotEnabled != nil && rec.BotEnabled != *f.BotEnabled {
		return false
	}
	if f.IsPublic != nil && rec.IsPublic != *f.IsPublic {
		return false
	}
	return true
}
