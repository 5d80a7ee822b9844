package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corvid-chat/corvid/internal/models"
)

// RandSource is the randomness used for synthesis and defaults.
// *math/rand.Rand satisfies it; it is not safe for concurrent use.
type RandSource interface {
	Intn(n int) int
	Float64() float64
	Read(p []byte) (int, error)
}

// NewRandSource returns a deterministic source for the given seed.
func NewRandSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // demo data, not security sensitive
}

const (
	syntheticServerID = "demo-server"
	syntheticWindow   = 30 * 24 * time.Hour
)

var (
	syntheticKinds      = []models.ChannelKind{models.ChannelKindText, models.ChannelKindVoice, models.ChannelKindMusic}
	syntheticCategories = []string{"General", "Development", "Entertainment", "Support", "Creative", "Education", "Voice"}
	syntheticAdjectives = []string{"awesome", "cool", "fun", "amazing", "epic", "great", "fantastic", "brilliant", "stellar", "incredible"}
	syntheticNouns      = []string{"chat", "discussion", "room", "space", "zone", "hub", "corner", "lounge", "hangout", "spot"}
	syntheticEmojis     = []string{"🚀", "💫", "⭐", "🔥", "💎", "🌟", "✨", "🎯", "🎪", "🎨", "🎵", "📱", "💻", "🎮", "📚", "🏆", "🌈", "⚡"}
)

// GenerateSyntheticChannels builds count demo channels from fixed word lists.
// Output depends only on rng and now, so a seeded source reproduces it exactly.
func GenerateSyntheticChannels(rng RandSource, count int, now time.Time) []models.ChannelRecord {
	if count <= 0 {
		return nil
	}

	channels := make([]models.ChannelRecord, 0, count)
	for i := 0; i < count; i++ {
		adjective := pick(rng, syntheticAdjectives)
		noun := pick(rng, syntheticNouns)
		emoji := pick(rng, syntheticEmojis)
		kind := pick(rng, syntheticKinds)
		category := pick(rng, syntheticCategories)

		age := time.Duration(rng.Float64() * float64(syntheticWindow))
		isPublic := rng.Float64() > 0.2
		botEnabled := rng.Float64() > 0.6

		botType := string(kind)
		if rng.Float64() > 0.5 {
			botType = "general"
		}

		channels = append(channels, models.ChannelRecord{
			ID:          "generated-" + newID(rng).String(),
			Name:        adjective + "-" + noun,
			Kind:        kind,
			Description: fmt.Sprintf("%s %s %s for community members", emoji, capitalize(adjective), noun),
			Category:    category,
			ServerID:    syntheticServerID,
			MemberCount: rng.Intn(200) + 10,
			IsPublic:    isPublic,
			BotEnabled:  botEnabled,
			BotType:     botType,
			CreatedBy:   fmt.Sprintf("user-%d", rng.Intn(10)+1),
			CreatedAt:   now.Add(-age),
			UpdatedAt:   now,
		})
	}

	return channels
}

func pick[T any](rng RandSource, items []T) T {
	return items[rng.Intn(len(items))]
}

// newID draws a v4 UUID from rng so ids follow the seed.
func newID(rng RandSource) uuid.UUID {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
