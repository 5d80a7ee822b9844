package catalog

import (
	"time"

	"github.com/corvid-chat/corvid/internal/models"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

var seedChannels = []models.ChannelRecord{
	{
		ID: "general-001", Name: "general", Kind: models.ChannelKindText,
		Description: "General discussion for everyone", Category: "General",
		ServerID: "demo-server", MemberCount: 156, IsPublic: true, CreatedBy: "admin-001",
		CreatedAt: ts("2025-01-01T10:00:00Z"), UpdatedAt: ts("2025-06-29T14:30:00Z"),
	},
	{
		ID: "random-002", Name: "random", Kind: models.ChannelKindText,
		Description: "Random conversations and off-topic discussions", Category: "General",
		ServerID: "demo-server", MemberCount: 89, IsPublic: true, CreatedBy: "admin-001",
		CreatedAt: ts("2025-01-02T14:20:00Z"), UpdatedAt: ts("2025-06-29T12:15:00Z"),
	},
	{
		ID: "announcements-003", Name: "announcements", Kind: models.ChannelKindText,
		Description: "📢 Important server announcements and updates", Category: "Information",
		ServerID: "demo-server", MemberCount: 201, IsPublic: true, CreatedBy: "admin-001",
		CreatedAt: ts("2025-01-01T10:05:00Z"), UpdatedAt: ts("2025-06-28T16:45:00Z"),
	},
	{
		ID: "music-bot-004", Name: "music-bot", Kind: models.ChannelKindMusic,
		Description: "🎵 Play and control music with our bot", Category: "Entertainment",
		ServerID: "demo-server", MemberCount: 134, IsPublic: true, CreatedBy: "user-002",
		BotEnabled: true, BotType: "music",
		CreatedAt: ts("2025-01-03T09:30:00Z"), UpdatedAt: ts("2025-06-29T11:20:00Z"),
	},
	{
		ID: "tech-talk-005", Name: "tech-talk", Kind: models.ChannelKindText,
		Description: "💻 Discuss programming, tech news, and development", Category: "Development",
		ServerID: "demo-server", MemberCount: 67, IsPublic: true, CreatedBy: "user-003",
		CreatedAt: ts("2025-01-05T11:45:00Z"), UpdatedAt: ts("2025-06-29T13:10:00Z"),
	},
	{
		ID: "gaming-006", Name: "gaming", Kind: models.ChannelKindText,
		Description: "🎮 Gaming discussions, LFG, and game reviews", Category: "Entertainment",
		ServerID: "demo-server", MemberCount: 112, IsPublic: true, CreatedBy: "user-004",
		BotEnabled: true, BotType: "gaming",
		CreatedAt: ts("2025-01-07T16:20:00Z"), UpdatedAt: ts("2025-06-29T10:05:00Z"),
	},
	{
		ID: "help-support-007", Name: "help-support", Kind: models.ChannelKindText,
		Description: "❓ Get help and support from community members", Category: "Support",
		ServerID: "demo-server", MemberCount: 45, IsPublic: true, CreatedBy: "admin-001",
		BotEnabled: true, BotType: "support",
		CreatedAt: ts("2025-01-10T13:15:00Z"), UpdatedAt: ts("2025-06-29T15:30:00Z"),
	},
	{
		ID: "project-showcase-008", Name: "project-showcase", Kind: models.ChannelKindText,
		Description: "🚀 Share your projects and get feedback", Category: "Development",
		ServerID: "demo-server", MemberCount: 78, IsPublic: true, CreatedBy: "user-005",
		CreatedAt: ts("2025-01-12T10:30:00Z"), UpdatedAt: ts("2025-06-29T09:45:00Z"),
	},
	{
		ID: "art-creativity-009", Name: "art-creativity", Kind: models.ChannelKindText,
		Description: "🎨 Share artwork, designs, and creative projects", Category: "Creative",
		ServerID: "demo-server", MemberCount: 93, IsPublic: true, CreatedBy: "user-006",
		CreatedAt: ts("2025-01-15T14:00:00Z"), UpdatedAt: ts("2025-06-29T12:30:00Z"),
	},
	{
		ID: "voice-lounge-010", Name: "voice-lounge", Kind: models.ChannelKindVoice,
		Description: "🎤 General voice chat and hangout space", Category: "Voice",
		ServerID: "demo-server", MemberCount: 156, IsPublic: true, CreatedBy: "user-007",
		CreatedAt: ts("2025-01-18T12:00:00Z"), UpdatedAt: ts("2025-06-29T14:15:00Z"),
	},
	{
		ID: "study-group-011", Name: "study-group", Kind: models.ChannelKindText,
		Description: "📚 Study together and share educational resources", Category: "Education",
		ServerID: "demo-server", MemberCount: 34, IsPublic: true, CreatedBy: "user-008",
		BotEnabled: true, BotType: "study",
		CreatedAt: ts("2025-01-20T15:30:00Z"), UpdatedAt: ts("2025-06-29T11:00:00Z"),
	},
	{
		ID: "feedback-012", Name: "feedback", Kind: models.ChannelKindText,
		Description: "💬 Share feedback and suggestions for the server", Category: "Information",
		ServerID: "demo-server", MemberCount: 28, IsPublic: true, CreatedBy: "admin-001",
		CreatedAt: ts("2025-01-22T09:15:00Z"), UpdatedAt: ts("2025-06-29T13:45:00Z"),
	},
}

// SeedChannels returns a fresh copy of the built-in demo channels.
func SeedChannels() []models.ChannelRecord {
	out := make([]models.ChannelRecord, len(seedChannels))
	copy(out, seedChannels)
	return out
}

var templates = []models.ChannelTemplate{
	{Name: "welcome", Kind: models.ChannelKindText, Description: "👋 Welcome new members to the server", Category: "Information", BotEnabled: true, BotType: "welcome"},
	{Name: "rules", Kind: models.ChannelKindText, Description: "📋 Server rules and guidelines", Category: "Information"},
	{Name: "memes", Kind: models.ChannelKindText, Description: "😂 Share memes and funny content", Category: "Entertainment"},
	{Name: "dev-resources", Kind: models.ChannelKindText, Description: "📖 Development resources and tutorials", Category: "Development"},
	{Name: "music-requests", Kind: models.ChannelKindText, Description: "🎵 Request songs for the music bot", Category: "Entertainment", BotEnabled: true, BotType: "music"},
	{Name: "screenshots", Kind: models.ChannelKindText, Description: "📸 Share screenshots and images", Category: "Creative"},
	{Name: "polls", Kind: models.ChannelKindText, Description: "📊 Community polls and voting", Category: "General", BotEnabled: true, BotType: "poll"},
	{Name: "events", Kind: models.ChannelKindText, Description: "📅 Server events and announcements", Category: "Information"},
}

// Templates returns a copy of the built-in template catalog.
func Templates() []models.ChannelTemplate {
	out := make([]models.ChannelTemplate, len(templates))
	copy(out, templates)
	return out
}

// FindTemplate looks a template up by name.
func FindTemplate(name string) (models.ChannelTemplate, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return models.ChannelTemplate{}, false
}
