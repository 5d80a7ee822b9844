package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-chat/corvid/internal/models"
)

func TestGenerateSyntheticChannels_StructuralProperties(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	channels := GenerateSyntheticChannels(NewRandSource(7), 500, now)

	require.Len(t, channels, 500)

	seen := make(map[string]bool, len(channels))
	public, bots := 0, 0
	for _, ch := range channels {
		assert.True(t, strings.HasPrefix(ch.ID, "generated-"), "id %q", ch.ID)
		assert.False(t, seen[ch.ID], "duplicate id %q", ch.ID)
		seen[ch.ID] = true

		assert.NotEmpty(t, ch.Name)
		assert.Contains(t, ch.Name, "-")
		assert.Contains(t, ch.Description, "for community members")
		assert.True(t, ch.Kind.Valid(), "kind %q", ch.Kind)
		assert.Contains(t, syntheticCategories, ch.Category)
		assert.GreaterOrEqual(t, ch.MemberCount, 10)
		assert.Less(t, ch.MemberCount, 210)
		assert.False(t, ch.CreatedAt.After(now))
		assert.True(t, ch.CreatedAt.After(now.Add(-syntheticWindow-time.Second)))
		assert.Equal(t, now, ch.UpdatedAt)
		assert.Equal(t, "demo-server", ch.ServerID)
		assert.True(t, ch.BotType == "general" || ch.BotType == string(ch.Kind), "botType %q", ch.BotType)

		if ch.IsPublic {
			public++
		}
		if ch.BotEnabled {
			bots++
		}
	}

	// ~80% public and ~40% bot-enabled; wide bounds keep this stable for any seed.
	assert.InDelta(t, 0.8, float64(public)/500, 0.1)
	assert.InDelta(t, 0.4, float64(bots)/500, 0.1)
}

func TestGenerateSyntheticChannels_SeedIsReproducible(t *testing.T) {
	now := time.Now()

	first := GenerateSyntheticChannels(NewRandSource(42), 25, now)
	second := GenerateSyntheticChannels(NewRandSource(42), 25, now)
	other := GenerateSyntheticChannels(NewRandSource(43), 25, now)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestGenerateSyntheticChannels_NonPositiveCount(t *testing.T) {
	assert.Empty(t, GenerateSyntheticChannels(NewRandSource(1), 0, time.Now()))
	assert.Empty(t, GenerateSyntheticChannels(NewRandSource(1), -3, time.Now()))
}

func TestSeedAndTemplates(t *testing.T) {
	seed := SeedChannels()
	require.Len(t, seed, 12)

	seed[0].Name = "mutated"
	assert.Equal(t, "general", SeedChannels()[0].Name, "SeedChannels must return a copy")

	welcome, ok := FindTemplate("welcome")
	require.True(t, ok)
	assert.True(t, welcome.BotEnabled)
	assert.Equal(t, "Information", welcome.Category)
	assert.Equal(t, models.ChannelKindText, welcome.Kind)

	_, ok = FindTemplate("does-not-exist")
	assert.False(t, ok)
}
