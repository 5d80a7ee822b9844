package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/catalog"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/validation"
	"github.com/corvid-chat/corvid/pkg/logger"
)

// MaxInitializeTotal bounds how large a single Initialize call may grow the catalog.
const MaxInitializeTotal = 10000

// ChannelService applies the REST rules on top of the catalog manager and
// announces every change.
type ChannelService struct {
	catalog     *catalog.Manager
	events      eventSink
	metrics     Metrics
	log         *zap.Logger
	maxPageSize int
}

// NewChannelService creates a ChannelService. maxPageSize caps requested page sizes.
func NewChannelService(manager *catalog.Manager, publisher EventPublisher, m Metrics, maxPageSize int) *ChannelService {
	log := logger.Named("channels")
	m = metricsOrNop(m)
	if maxPageSize <= 0 {
		maxPageSize = validation.MaxPageLimit
	}

	s := &ChannelService{
		catalog:     manager,
		events:      newEventSink(publisher, m, log),
		metrics:     m,
		log:         log,
		maxPageSize: maxPageSize,
	}
	m.SetCatalogSize(manager.Size())
	return s
}

// Initialize grows the catalog to at least total channels.
func (s *ChannelService) Initialize(_ context.Context, total int) (int, error) {
	if total < 0 || total > MaxInitializeTotal {
		return 0, apperrors.NewValidation("total",
			fmt.Sprintf("total must be between 0 and %d", MaxInitializeTotal))
	}

	before := s.catalog.Size()
	after := s.catalog.Initialize(total)
	s.metrics.SetCatalogSize(after)

	if after > before {
		s.log.Info("Catalog initialized",
			zap.Int("generated", after-before),
			zap.Int("total", after),
		)
	}
	return after, nil
}

// List returns one page of the catalog.
func (s *ChannelService) List(_ context.Context, opts catalog.LoadOptions) (*catalog.LoadResult, error) {
	if opts.PageSize > s.maxPageSize {
		opts.PageSize = s.maxPageSize
	}
	if opts.Filters.Kind != nil {
		if err := validation.ValidateChannelKind(*opts.Filters.Kind); err != nil {
			return nil, err
		}
	}
	return s.catalog.LoadChannels(opts)
}

// LoadMore returns the next page of the current listing, or nil when there is none.
func (s *ChannelService) LoadMore(_ context.Context) (*catalog.LoadResult, error) {
	return s.catalog.LoadMore()
}

// Get returns the channel with the given id.
func (s *ChannelService) Get(_ context.Context, id string) (*models.ChannelRecord, error) {
	return s.catalog.GetChannel(id)
}

// Create validates and stores a new channel. The name is slugified.
func (s *ChannelService) Create(ctx context.Context, input models.ChannelInput) (*models.ChannelRecord, error) {
	if err := validation.ValidateChannelName(input.Name); err != nil {
		return nil, err
	}
	input.Name = validation.Slugify(input.Name)
	if input.Description != nil {
		description := validation.SanitizeInput(*input.Description)
		input.Description = &description
	}

	kind := models.ChannelKindText
	if input.Kind != nil {
		kind = *input.Kind
	}
	if err := validation.ValidateMusicBot(kind, deref(input.BotEnabled)); err != nil {
		return nil, err
	}

	rec, err := s.catalog.CreateChannel(input)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, models.EventChannelCreated, rec.ID, rec)
	s.log.Info("Channel created",
		zap.String("channelId", rec.ID),
		zap.String("name", rec.Name),
		zap.String("type", string(rec.Kind)),
	)
	return rec, nil
}

// CreateFromTemplate creates a channel from a named template.
func (s *ChannelService) CreateFromTemplate(ctx context.Context, name string, overrides models.ChannelInput) (*models.ChannelRecord, error) {
	if tmpl, ok := catalog.FindTemplate(name); ok {
		kind, botEnabled := tmpl.Kind, tmpl.BotEnabled
		if overrides.Kind != nil {
			kind = *overrides.Kind
		}
		if overrides.BotEnabled != nil {
			botEnabled = *overrides.BotEnabled
		}
		if err := validation.ValidateMusicBot(kind, botEnabled); err != nil {
			return nil, err
		}
	}
	if overrides.Name != "" {
		overrides.Name = validation.Slugify(overrides.Name)
	}

	rec, err := s.catalog.CreateFromTemplate(name, overrides)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, models.EventChannelCreated, rec.ID, rec)
	s.log.Info("Channel created from template",
		zap.String("channelId", rec.ID),
		zap.String("template", name),
	)
	return rec, nil
}

// Update applies a partial update.
func (s *ChannelService) Update(ctx context.Context, id string, patch models.ChannelPatch) (*models.ChannelRecord, error) {
	if patch.Kind != nil || patch.BotEnabled != nil {
		current, err := s.catalog.GetChannel(id)
		if err != nil {
			return nil, err
		}
		kind, botEnabled := current.Kind, current.BotEnabled
		if patch.Kind != nil {
			kind = *patch.Kind
		}
		if patch.BotEnabled != nil {
			botEnabled = *patch.BotEnabled
		}
		if err := validation.ValidateMusicBot(kind, botEnabled); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil {
		if err := validation.ValidateChannelName(*patch.Name); err != nil {
			return nil, err
		}
		slug := validation.Slugify(*patch.Name)
		patch.Name = &slug
	}
	if patch.Description != nil {
		description := validation.SanitizeInput(*patch.Description)
		patch.Description = &description
	}

	rec, err := s.catalog.UpdateChannel(id, patch)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, models.EventChannelUpdated, rec.ID, rec)
	return rec, nil
}

// Delete removes a channel.
func (s *ChannelService) Delete(ctx context.Context, id string) error {
	if err := s.catalog.DeleteChannel(id); err != nil {
		return err
	}

	s.afterMutation(ctx, models.EventChannelDeleted, id, map[string]string{"id": id})
	s.log.Info("Channel deleted", zap.String("channelId", id))
	return nil
}

// Stats aggregates the catalog.
func (s *ChannelService) Stats(_ context.Context) models.ChannelStats {
	return s.catalog.GetStats()
}

// Categories groups the catalog by category.
func (s *ChannelService) Categories(_ context.Context) []catalog.CategoryGroup {
	return s.catalog.ChannelsByCategory()
}

// Templates lists the channel templates.
func (s *ChannelService) Templates(_ context.Context) []models.ChannelTemplate {
	return s.catalog.Templates()
}

// Reset restores the seed catalog.
func (s *ChannelService) Reset(ctx context.Context) models.ChannelStats {
	s.catalog.Reset()
	stats := s.catalog.GetStats()

	s.afterMutation(ctx, models.EventCatalogReset, "", stats)
	s.log.Info("Catalog reset", zap.Int("total", stats.Total))
	return stats
}

func (s *ChannelService) afterMutation(ctx context.Context, eventType models.EventType, channelID string, payload any) {
	s.metrics.SetCatalogSize(s.catalog.Size())
	s.events.emit(ctx, eventType, channelID, payload)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
