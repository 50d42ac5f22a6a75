package datastore

import (
	"context"
	"log/slog"

	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
	"github.com/zombiz/blitz/internal/transform"
)

// Service layers the logger's domain helpers over any Store. These are
// the operations the original desktop client issued against its
// database session.
type Service struct {
	store Store
}

// NewService creates a Service over the given store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Store exposes the underlying store for raw queries
func (s *Service) Store() Store {
	return s.store
}

// Sessions returns every logging session
func (s *Service) Sessions(ctx context.Context) (*container.Container, error) {
	return s.store.Query(ctx, model.SessionSchema, nil)
}

// SessionReadings returns the readings logged during one session
func (s *Service) SessionReadings(ctx context.Context, sessionId int64) (*container.Container, error) {
	return s.store.Query(ctx, model.ReadingSchema, Filter{"sessionId": sessionId})
}

// SessionVariables returns the categories that have readings in the
// given session
func (s *Service) SessionVariables(ctx context.Context, sessionId int64) ([]model.Category, error) {
	readings, err := s.SessionReadings(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	for _, rec := range readings.Records() {
		seen[model.ReadingFromRecord(rec).CategoryId] = true
	}

	categories, err := s.store.Query(ctx, model.CategorySchema, nil)
	if err != nil {
		return nil, err
	}

	var out []model.Category
	for _, rec := range categories.Records() {
		cat := model.CategoryFromRecord(rec)
		if seen[cat.Id] {
			out = append(out, cat)
		}
	}
	return out, nil
}

// Cache returns the live variable cache, optionally limited to entries
// at or after sinceMillis. Pass 0 for everything.
func (s *Service) Cache(ctx context.Context, sinceMillis int64) (*container.Container, error) {
	cached, err := s.store.Query(ctx, model.CachedValueSchema, nil)
	if err != nil {
		return nil, err
	}
	if sinceMillis <= 0 {
		return cached, nil
	}
	return (&transform.Since{Field: "timeLogged", Floor: sinceMillis}).Apply(cached)
}

// AddCache appends one entry to the live variable cache
func (s *Service) AddCache(ctx context.Context, timeLogged, categoryId int64, value float64) error {
	entry := model.CachedValue{TimeLogged: timeLogged, CategoryId: categoryId, Value: value}
	return s.store.Upsert(ctx, model.CachedValueSchema, entry.ToRecord())
}

// GetConfig looks up one persisted configuration value. The second
// return value reports whether the key exists.
func (s *Service) GetConfig(ctx context.Context, key string) (string, bool, error) {
	result, err := s.store.Query(ctx, model.ConfigSchema, Filter{"key": key})
	if err != nil {
		return "", false, err
	}
	if result.Len() == 0 {
		return "", false, nil
	}
	return model.ConfigFromRecord(result.Record(0)).Value, true, nil
}

// SetConfig persists a configuration value, updating the entry in place
// when the key already exists
func (s *Service) SetConfig(ctx context.Context, key, value string) error {
	existing, err := s.store.Query(ctx, model.ConfigSchema, Filter{"key": key})
	if err != nil {
		return err
	}

	entry := model.Config{Key: key, Value: value}
	if existing.Len() > 0 {
		entry.Id = model.ConfigFromRecord(existing.Record(0)).Id
	}
	return s.store.Upsert(ctx, model.ConfigSchema, entry.ToRecord())
}

// GetOrCreateCategory returns the id of the category with the given
// variable name, creating it first if necessary
func (s *Service) GetOrCreateCategory(ctx context.Context, variableName string) (int64, error) {
	existing, err := s.store.Query(ctx, model.CategorySchema, Filter{"variableName": variableName})
	if err != nil {
		return 0, err
	}
	if existing.Len() > 0 {
		return model.CategoryFromRecord(existing.Record(0)).Id, nil
	}

	cat := model.Category{VariableName: variableName}
	if err := s.store.Upsert(ctx, model.CategorySchema, cat.ToRecord()); err != nil {
		return 0, err
	}

	// read back the assigned id
	created, err := s.store.Query(ctx, model.CategorySchema, Filter{"variableName": variableName})
	if err != nil {
		return 0, err
	}
	if created.Len() == 0 {
		return 0, errors.NewQueryError("Category", "created category could not be read back")
	}
	return model.CategoryFromRecord(created.Record(0)).Id, nil
}

// UpdateSessionAvailability recomputes whether a session's readings
// have been fully downloaded and persists the flag
func (s *Service) UpdateSessionAvailability(ctx context.Context, sessionId int64) error {
	sessions, err := s.store.Query(ctx, model.SessionSchema, Filter{"id": sessionId})
	if err != nil {
		return err
	}
	if sessions.Len() == 0 {
		slog.Warn("Cannot update availability for unknown session", "sessionId", sessionId)
		return nil
	}
	session := model.SessionFromRecord(sessions.Record(0))

	readings, err := s.SessionReadings(ctx, sessionId)
	if err != nil {
		return err
	}

	session.Available = int64(readings.Len()) >= session.NumberOfReadings
	return s.store.Upsert(ctx, model.SessionSchema, session.ToRecord())
}

// LoadFixtures seeds a fresh database with the fixture data
func (s *Service) LoadFixtures(ctx context.Context) error {
	for _, sess := range model.SessionFixtures {
		if err := s.store.Upsert(ctx, model.SessionSchema, sess.ToRecord()); err != nil {
			return err
		}
	}
	for _, cat := range model.CategoryFixtures {
		if err := s.store.Upsert(ctx, model.CategorySchema, cat.ToRecord()); err != nil {
			return err
		}
	}
	for _, r := range model.ReadingFixtures {
		if err := s.store.Upsert(ctx, model.ReadingSchema, r.ToRecord()); err != nil {
			return err
		}
	}
	for _, c := range model.CachedValueFixtures {
		if err := s.store.Upsert(ctx, model.CachedValueSchema, c.ToRecord()); err != nil {
			return err
		}
	}
	for _, c := range model.ConfigFixtures {
		if err := s.store.Upsert(ctx, model.ConfigSchema, c.ToRecord()); err != nil {
			return err
		}
	}
	return nil
}
