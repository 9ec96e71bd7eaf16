package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxscribe/transcribe-relay/domain/entities"
	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// MemoryTranscriptionRepository is an in-memory implementation of
// TranscriptionRepository. Rows are lost on restart.
type MemoryTranscriptionRepository struct {
	mu             sync.RWMutex
	transcriptions []*entities.Transcription
}

var _ repositories.TranscriptionRepository = (*MemoryTranscriptionRepository)(nil)

// NewMemoryTranscriptionRepository creates a new in-memory transcription repository
func NewMemoryTranscriptionRepository() *MemoryTranscriptionRepository {
	return &MemoryTranscriptionRepository{
		transcriptions: make([]*entities.Transcription, 0),
	}
}

// Insert implements TranscriptionRepository interface
func (m *MemoryTranscriptionRepository) Insert(ctx context.Context, transcription *entities.Transcription) ([]*entities.Transcription, error) {
	if transcription == nil {
		return nil, errors.New("transcription cannot be nil")
	}

	if err := transcription.Validate(); err != nil {
		return nil, err
	}

	row := *transcription
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.transcriptions = append(m.transcriptions, &row)

	inserted := row
	return []*entities.Transcription{&inserted}, nil
}

// List returns a copy of all stored transcriptions in insertion order
func (m *MemoryTranscriptionRepository) List() []entities.Transcription {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]entities.Transcription, 0, len(m.transcriptions))
	for _, t := range m.transcriptions {
		rows = append(rows, *t)
	}
	return rows
}

// Count returns the number of stored transcriptions
func (m *MemoryTranscriptionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transcriptions)
}
