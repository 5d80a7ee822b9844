// Package catalog maintains the in-memory channel catalog: synthesis, filtered
// and paginated listing, and create/update/delete.
package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/validation"
)

const (
	DefaultPageSize = 10

	defaultCategory  = "General"
	defaultCreatedBy = "demo-user"
	defaultServerID  = "demo-server"
)

// LoadOptions selects a page of the filtered catalog.
type LoadOptions struct {
	Page     int
	PageSize int
	Search   string
	Filters  models.ChannelFilters
	Reset    bool
}

// LoadResult is one page plus the accumulated loaded view.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type LoadResult struct {
	Channels       []models.ChannelRecord `json:"channels"`
	LoadedChannels []models.ChannelRecord `json:"loadedChannels"`
	Pagination     models.Pagination      `json:"pagination"`
	Search         string                 `json:"search"`
	Filters        models.ChannelFilters  `json:"filters"`
}

// CategoryGroup is one bucket of ChannelsByCategory.
type CategoryGroup struct {
	Category string                 `json:"category"`
	Channels []models.ChannelRecord `json:"channels"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithRandSource sets the randomness used for synthesis, ids and defaults.
func WithRandSource(rng RandSource) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPageSize sets the default page size.
func WithPageSize(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.defaultPageSize = size
		}
	}
}

// WithSeed replaces the built-in seed set that the manager starts from and resets to.
func WithSeed(records []models.ChannelRecord) Option {
	return func(m *Manager) {
		m.seed = make([]models.ChannelRecord, len(records))
		copy(m.seed, records)
	}
}

// Manager owns the channel catalog. records is the single source of truth;
// order holds the natural listing order and loaded the ids of the view.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Manager struct {
	mu  sync.Mutex
	rng RandSource
	now func() time.Time

	seed            []models.ChannelRecord
	defaultPageSize int

	records map[string]*models.ChannelRecord
	order   []string

	loaded      []string
	viewActive  bool
	currentPage int
	pageSize    int
	search      string
	filters     models.ChannelFilters
	hasMore     bool
}

// NewManager creates a manager holding the seed set.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:             time.Now,
		seed:            SeedChannels(),
		defaultPageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = NewRandSource(time.Now().UnixNano())
	}
	m.resetLocked()
	return m
}

// Initialize grows the catalog to at least targetTotal records and returns the total.
func (m *Manager) Initialize(targetTotal int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	missing := targetTotal - len(m.order)
	if missing > 0 {
		for _, rec := range GenerateSyntheticChannels(m.rng, missing, m.now()) {
			for m.records[rec.ID] != nil {
				rec.ID = "generated-" + newID(m.rng).String()
			}
			m.insertLocked(rec, false)
		}
	}
	return len(m.order)
}

// LoadChannels returns one page of the filtered catalog and updates the loaded view.
func (m *Manager) LoadChannels(opts LoadOptions) (*LoadResult, error) {
	if opts.Page < 0 {
		return nil, apperrors.NewValidation("page", "page must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = m.pageSize
	}

	term := strings.ToLower(opts.Search)
	filtered := make([]*models.ChannelRecord, 0, len(m.order))
	for _, id := range m.order {
		rec := m.records[id]
		if matchesSearch(rec, term) && matchesFilters(rec, opts.Filters) {
			filtered = append(filtered, rec)
		}
	}

	total := len(filtered)
	// Work in page indexes so oversized page or pageSize values cannot overflow.
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	var page []*models.ChannelRecord
	if opts.Page < totalPages {
		start := opts.Page * pageSize
		page = filtered[start:min(start+pageSize, total)]
	}

	ids := make([]string, len(page))
	channels := make([]models.ChannelRecord, len(page))
	for i, rec := range page {
		ids[i] = rec.ID
		channels[i] = *rec
	}

	if opts.Reset {
		m.loaded = ids
	} else {
		m.loaded = append(m.loaded, ids...)
	}

	pagination := models.Pagination{
		CurrentPage: opts.Page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		Total:       total,
		HasMore:     opts.Page < totalPages-1,
	}

	m.viewActive = true
	m.currentPage = opts.Page
	m.pageSize = pageSize
	m.search = opts.Search
	m.filters = opts.Filters
	m.hasMore = pagination.HasMore

	return &LoadResult{
		Channels:       channels,
		LoadedChannels: m.loadedLocked(),
		Pagination:     pagination,
		Search:         opts.Search,
		Filters:        opts.Filters,
	}, nil
}

// LoadMore appends the next page of the current listing. It returns nil when
// the previous page reported no more results.
func (m *Manager) LoadMore() (*LoadResult, error) {
	m.mu.Lock()
	if !m.hasMore {
		m.mu.Unlock()
		return nil, nil
	}
	opts := LoadOptions{
		Page:     m.currentPage + 1,
		PageSize: m.pageSize,
		Search:   m.search,
		Filters:  m.filters,
	}
	m.mu.Unlock()

	return m.LoadChannels(opts)
}

// CreateChannel validates input, fills defaults and prepends the new record.
func (m *Manager) CreateChannel(input models.ChannelInput) (*models.ChannelRecord, error) {
	if err := validation.ValidateChannelName(input.Name); err != nil {
		return nil, err
	}
	if input.Kind != nil {
		if err := validation.ValidateChannelKind(*input.Kind); err != nil {
			return nil, err
		}
	}
	if input.MemberCount != nil && *input.MemberCount < 0 {
		return nil, apperrors.NewValidation("memberCount", "member count must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec := models.ChannelRecord{
		ID:          m.freshIDLocked(),
		Name:        strings.TrimSpace(input.Name),
		Kind:        models.ChannelKindText,
		Category:    defaultCategory,
		ServerID:    defaultServerID,
		MemberCount: m.rng.Intn(10) + 1,
		IsPublic:    true,
		CreatedBy:   defaultCreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Kind != nil {
		rec.Kind = *input.Kind
	}
	if input.Description != nil {
		rec.Description = *input.Description
	}
	if input.Category != nil {
		rec.Category = *input.Category
	}
	if input.ServerID != nil {
		rec.ServerID = *input.ServerID
	}
	if input.MemberCount != nil {
		rec.MemberCount = *input.MemberCount
	}
	if input.IsPublic != nil {
		rec.IsPublic = *input.IsPublic
	}
	if input.BotEnabled != nil {
		rec.BotEnabled = *input.BotEnabled
	}
	if input.BotType != nil {
		rec.BotType = *input.BotType
	}
	if input.CreatedBy != nil {
		rec.CreatedBy = *input.CreatedBy
	}

	m.insertLocked(rec, true)
	out := rec
	return &out, nil
}

// CreateFromTemplate creates a channel from a named template with overrides applied on top.
func (m *Manager) CreateFromTemplate(name string, overrides models.ChannelInput) (*models.ChannelRecord, error) {
	tmpl, ok := FindTemplate(name)
	if !ok {
		return nil, apperrors.NewNotFound("template", name)
	}

	input := models.ChannelInput{
		Name:        tmpl.Name,
		Kind:        &tmpl.Kind,
		Description: &tmpl.Description,
		Category:    &tmpl.Category,
		BotEnabled:  &tmpl.BotEnabled,
	}
	if tmpl.BotType != "" {
		input.BotType = &tmpl.BotType
	}
	return m.CreateChannel(mergeInput(input, overrides))
}

// UpdateChannel merges patch into the record and refreshes UpdatedAt.
func (m *Manager) UpdateChannel(id string, patch models.ChannelPatch) (*models.ChannelRecord, error) {
	if patch.Name != nil {
		if err := validation.ValidateChannelName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Kind != nil {
		if err := validation.ValidateChannelKind(*patch.Kind); err != nil {
			return nil, err
		}
	}
	if patch.MemberCount != nil && *patch.MemberCount < 0 {
		return nil, apperrors.NewValidation("memberCount", "member count must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return nil, apperrors.NewNotFound("channel", id)
	}

	updated := *existing
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Kind != nil {
		updated.Kind = *patch.Kind
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.MemberCount != nil {
		updated.MemberCount = *patch.MemberCount
	}
	if patch.IsPublic != nil {
		updated.IsPublic = *patch.IsPublic
	}
	if patch.BotEnabled != nil {
		updated.BotEnabled = *patch.BotEnabled
	}
	if patch.BotType != nil {
		updated.BotType = *patch.BotType
	}
	updated.UpdatedAt = m.now()

	m.records[id] = &updated
	out := updated
	return &out, nil
}

// DeleteChannel removes the record from the catalog and the loaded view.
// Deleting an unknown id returns a NotFound error.
func (m *Manager) DeleteChannel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return apperrors.NewNotFound("channel", id)
	}

	delete(m.records, id)
	m.order = removeID(m.order, id)
	m.loaded = removeID(m.loaded, id)
	return nil
}

// GetChannel returns a copy of the record with the given id.
func (m *Manager) GetChannel(id string) (*models.ChannelRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, apperrors.NewNotFound("channel", id)
	}
	out := *rec
	return &out, nil
}

// Size returns the number of records in the catalog.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// GetStats aggregates the full catalog.
func (m *Manager) GetStats() models.ChannelStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := models.ChannelStats{
		Total:      len(m.order),
		Loaded:     len(m.loaded),
		ByType:     make(map[models.ChannelKind]int),
		ByCategory: make(map[string]int),
	}
	for _, id := range m.order {
		rec := m.records[id]
		stats.ByType[rec.Kind]++
		stats.ByCategory[rec.EffectiveCategory()]++
		if rec.BotEnabled {
			stats.WithBots++
		}
		if rec.IsPublic {
			stats.Public++
		} else {
			stats.Private++
		}
	}
	return stats
}

// ChannelsByCategory groups the catalog by category in order of first appearance.
func (m *Manager) ChannelsByCategory() []CategoryGroup {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := make(map[string]int)
	var groups []CategoryGroup
	for _, id := range m.order {
		rec := m.records[id]
		category := rec.EffectiveCategory()
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, CategoryGroup{Category: category})
		}
		groups[i].Channels = append(groups[i].Channels, *rec)
	}
	return groups
}

// Templates returns the template catalog.
func (m *Manager) Templates() []models.ChannelTemplate {
	return Templates()
}

// Reset restores the seed set and clears the loaded view, search and filters.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Manager) resetLocked() {
	m.records = make(map[string]*models.ChannelRecord, len(m.seed))
	m.order = make([]string, 0, len(m.seed))
	for _, rec := range m.seed {
		m.insertLocked(rec, false)
	}

	m.loaded = nil
	m.viewActive = false
	m.currentPage = 0
	m.pageSize = m.defaultPageSize
	m.search = ""
	m.filters = models.ChannelFilters{}
	m.hasMore = false
}

// insertLocked stores rec at the tail, or at the head of both the catalog and
// the active view when prepend is set.
func (m *Manager) insertLocked(rec models.ChannelRecord, prepend bool) {
	stored := rec
	m.records[rec.ID] = &stored
	if !prepend {
		m.order = append(m.order, rec.ID)
		return
	}
	m.order = append([]string{rec.ID}, m.order...)
	if m.viewActive {
		m.loaded = append([]string{rec.ID}, m.loaded...)
	}
}

func (m *Manager) loadedLocked() []models.ChannelRecord {
	out := make([]models.ChannelRecord, 0, len(m.loaded))
	for _, id := range m.loaded {
		if rec, ok := m.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

func (m *Manager) freshIDLocked() string {
	for {
		id := "channel-" + newID(m.rng).String()
		if _, taken := m.records[id]; !taken {
			return id
		}
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// mergeInput returns base with every field set in over applied on top.
func mergeInput(base, over models.ChannelInput) models.ChannelInput {
	if strings.TrimSpace(over.Name) != "" {
		base.Name = over.Name
	}
	if over.Kind != nil {
		base.Kind = over.Kind
	}
	if over.Description != nil {
		base.Description = over.Description
	}
	if over.Category != nil {
		base.Category = over.Category
	}
	if over.ServerID != nil {
		base.ServerID = over.ServerID
	}
	if over.MemberCount != nil {
		base.MemberCount = over.MemberCount
	}
	if over.IsPublic != nil {
		base.IsPublic = over.IsPublic
	}
	if over.BotEnabled != nil {
		base.BotEnabled = over.BotEnabled
	}
	if over.BotType != nil {
		base.BotType = over.BotType
	}
	if over.CreatedBy != nil {
		base.CreatedBy = over.CreatedBy
	}
	return base
}
