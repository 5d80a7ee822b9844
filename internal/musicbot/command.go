package musicbot

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
)

// DefaultPrefix marks a chat message as a bot command.
const DefaultPrefix = "!"

// Command is a tokenized bot command.
type Command struct {
	Name     string
	Argument string
}

// Response is the bot's reply to a command. Revert undoes the command's queue
// change and is nil for commands that only read.
type Response struct {
	Content string
	Action  *models.BotAction
	Revert  func()
}

// ParseCommand splits content into a lower-cased command name and the trimmed
// remainder. It reports false when content does not start with prefix.
func ParseCommand(content, prefix string) (Command, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Command{}, false
	}

	rest := content[len(prefix):]
	name, argument := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, argument = rest[:i], rest[i:]
	}

	return Command{
		Name:     strings.ToLower(name),
		Argument: strings.TrimSpace(argument),
	}, true
}

type handlerFunc func(ctx context.Context, channelID, requester string, cmd Command) (*Response, error)

// Bot executes prefixed commands against a Queue.
type Bot struct {
	queue    *Queue
	prefix   string
	handlers map[string]handlerFunc
}

// NewBot creates a bot that recognizes commands starting with prefix.
func NewBot(queue *Queue, prefix string) *Bot {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	b := &Bot{queue: queue, prefix: prefix}
	b.handlers = map[string]handlerFunc{
		"play":  b.play,
		"skip":  b.skip,
		"queue": b.showQueue,
		"clear": b.clear,
	}
	return b
}

// Prefix returns the command prefix.
func (b *Bot) Prefix() string {
	return b.prefix
}

// Queue returns the queue the bot operates on.
func (b *Bot) Queue() *Queue {
	return b.queue
}

// IsCommand reports whether content is addressed to the bot.
func (b *Bot) IsCommand(content string) bool {
	return strings.HasPrefix(content, b.prefix)
}

// Execute parses content and runs the matching command for channelID.
func (b *Bot) Execute(ctx context.Context, channelID, requester, content string) (*Response, error) {
	cmd, ok := ParseCommand(content, b.prefix)
	if !ok {
		return nil, apperrors.NewValidation("content", "not a bot command")
	}

	handler, ok := b.handlers[cmd.Name]
	if !ok {
		return nil, &apperrors.UnknownCommandError{Command: cmd.Name}
	}
	return handler(ctx, channelID, requester, cmd)
}

func (b *Bot) play(ctx context.Context, channelID, requester string, cmd Command) (*Response, error) {
	if cmd.Argument == "" {
		return nil, apperrors.NewValidation("argument", "please provide a YouTube URL")
	}

	track, err := b.queue.Enqueue(ctx, channelID, cmd.Argument, requester)
	if err != nil {
		return nil, err
	}

	queued := *track
	return &Response{
		Content: fmt.Sprintf("🎵 Added to queue: %s", track.Title),
		Action:  &models.BotAction{Command: "play", Track: track},
		Revert:  func() { b.queue.removeLast(channelID, queued) },
	}, nil
}

func (b *Bot) skip(_ context.Context, channelID, _ string, _ Command) (*Response, error) {
	skipped, next := b.queue.skip(channelID)
	revert := func() {
		if skipped != nil {
			b.queue.prepend(channelID, *skipped)
		}
	}
	if next == nil {
		return &Response{
			Content: "⏭️ Skipped! No more tracks in queue.",
			Action:  &models.BotAction{Command: "skip"},
			Revert:  revert,
		}, nil
	}

	return &Response{
		Content: fmt.Sprintf("⏭️ Skipped! Now playing: %s", next.Title),
		Action:  &models.BotAction{Command: "play", Track: next},
		Revert:  revert,
	}, nil
}

func (b *Bot) showQueue(_ context.Context, channelID, _ string, _ Command) (*Response, error) {
	tracks := b.queue.GetQueue(channelID)
	if len(tracks) == 0 {
		return &Response{
			Content: "Queue is empty.",
			Action:  &models.BotAction{Command: "queue"},
		}, nil
	}

	return &Response{
		Content: "Current queue:\n" + FormatQueue(tracks),
		Action:  &models.BotAction{Command: "queue", Queue: tracks},
	}, nil
}

func (b *Bot) clear(_ context.Context, channelID, _ string, _ Command) (*Response, error) {
	removed := b.queue.clear(channelID)
	return &Response{
		Content: "🗑️ Queue cleared.",
		Action:  &models.BotAction{Command: "clear"},
		Revert:  func() { b.queue.prepend(channelID, removed...) },
	}, nil
}

// FormatQueue renders tracks one per line, marking the head as playing.
func FormatQueue(tracks []models.QueuedTrack) string {
	lines := make([]string, len(tracks))
	for i, t := range tracks {
		if i == 0 {
			lines[i] = "▶️ " + t.Title
			continue
		}
		lines[i] = fmt.Sprintf("%d. %s", i+1, t.Title)
	}
	return strings.Join(lines, "\n")
}
