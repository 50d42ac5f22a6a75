package board

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/model"
)

// Manager keeps the registered boards and turns their frames into
// database rows through a datastore Service.
type Manager struct {
	boards map[int]Board
	svc    *datastore.Service
}

// NewManager creates a Manager over the given service
func NewManager(svc *datastore.Service) *Manager {
	return &Manager{boards: make(map[int]Board), svc: svc}
}

// RegisterDefaults registers the stock expansion boards
func (m *Manager) RegisterDefaults() error {
	for _, b := range []Board{BasicBoard(), MotorBoard(), NetScannerBoard(0), NetScannerBoard(16)} {
		if err := m.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a board, rejecting a second board on the same id
func (m *Manager) Register(b Board) error {
	if existing, ok := m.boards[b.Id]; ok {
		return fmt.Errorf("board id %d already registered to %s", b.Id, existing.Description)
	}
	slog.Info("Registered expansion board", "id", b.Id, "description", b.Description)
	m.boards[b.Id] = b
	return nil
}

// ParseMessage decodes one raw frame. Frames from unknown boards and
// malformed frames are skipped with a warning, never an error, so a
// glitched serial line cannot stall a download.
func (m *Manager) ParseMessage(frame string) []Sample {
	if len(frame) < headerChars {
		slog.Warn("Skipping truncated frame", "frame", frame)
		return nil
	}

	id, err := strconv.ParseUint(frame[:boardIdChars], 16, 8)
	if err != nil {
		slog.Warn("Skipping frame with unparseable board id", "frame", frame)
		return nil
	}

	b, ok := m.boards[int(id)]
	if !ok {
		slog.Warn("Ignoring frame for unknown board", "boardId", id, "frame", frame)
		return nil
	}

	samples, err := b.decode(frame)
	if err != nil {
		slog.Warn("Skipping malformed frame", "boardId", id, "error", err)
		return nil
	}
	return samples
}

// ParseSessionMessages decodes a batch of downloaded frames, persists
// the readings in one transaction where the store supports it, and
// recomputes the session's availability flag.
func (m *Manager) ParseSessionMessages(ctx context.Context, sessionId int64, frames []string) error {
	var records []model.Record
	for _, frame := range frames {
		for _, sample := range m.ParseMessage(frame) {
			categoryId, err := m.svc.GetOrCreateCategory(ctx, sample.Variable)
			if err != nil {
				return err
			}
			reading := model.Reading{
				SessionId:  sessionId,
				TimeLogged: sample.TimeLogged,
				CategoryId: categoryId,
				Value:      sample.Value,
			}
			records = append(records, reading.ToRecord())
		}
	}

	if err := m.persist(ctx, records); err != nil {
		return err
	}
	return m.svc.UpdateSessionAvailability(ctx, sessionId)
}

// ParseCacheMessage decodes one live frame and appends its samples to
// the variable cache
func (m *Manager) ParseCacheMessage(ctx context.Context, frame string) error {
	for _, sample := range m.ParseMessage(frame) {
		categoryId, err := m.svc.GetOrCreateCategory(ctx, sample.Variable)
		if err != nil {
			return err
		}
		if err := m.svc.AddCache(ctx, sample.TimeLogged, categoryId, sample.Value); err != nil {
			return err
		}
	}
	return nil
}

// Descriptions resolves a list of hex board ids to human readable
// descriptions for the session detail view
func (m *Manager) Descriptions(ids []string) []string {
	out := make([]string, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseUint(raw, 16, 8)
		if err != nil {
			out[i] = fmt.Sprintf("%s (unparseable)", raw)
			continue
		}
		if b, ok := m.boards[int(id)]; ok {
			out[i] = fmt.Sprintf("%d (%s): %s", id, raw, b.Description)
		} else {
			out[i] = fmt.Sprintf("%d (%s): Unknown", id, raw)
		}
	}
	return out
}

type batchUpserter interface {
	BatchUpsert(ctx context.Context, schema model.Schema, records []model.Record) error
}

func (m *Manager) persist(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	if batcher, ok := m.svc.Store().(batchUpserter); ok {
		return batcher.BatchUpsert(ctx, model.ReadingSchema, records)
	}
	for _, rec := range records {
		if err := m.svc.Store().Upsert(ctx, model.ReadingSchema, rec); err != nil {
			return err
		}
	}
	return nil
}
