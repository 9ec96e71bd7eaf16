package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/voxscribe/transcribe-relay/domain/entities"
	"github.com/voxscribe/transcribe-relay/domain/repositories"
)

// DefaultTable is the table transcriptions are inserted into
const DefaultTable = "transcriptions"

// TranscriptionRepository implements TranscriptionRepository on a Supabase table
type TranscriptionRepository struct {
	client *Client
	table  string
}

// NewTranscriptionRepository creates a new Supabase transcription repository
func NewTranscriptionRepository(client *Client, table string) repositories.TranscriptionRepository {
	if table == "" {
		table = DefaultTable
	}
	return &TranscriptionRepository{
		client: client,
		table:  table,
	}
}

// insertRow holds the columns the relay writes; id and created_at are
// assigned by the database
type insertRow struct {
	FileURL       string `json:"file_url"`
	Transcription string `json:"transcription"`
}

// storedRow is a row as returned by PostgREST. id may be a bigint or a
// uuid depending on how the table was created.
type storedRow struct {
	ID            json.RawMessage `json:"id"`
	FileURL       string          `json:"file_url"`
	Transcription string          `json:"transcription"`
	CreatedAt     string          `json:"created_at"`
}

func (r storedRow) toEntity() *entities.Transcription {
	transcription := &entities.Transcription{
		ID:      strings.Trim(string(r.ID), `"`),
		FileURL: r.FileURL,
		Text:    r.Transcription,
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		transcription.CreatedAt = createdAt
	}
	return transcription
}

// Insert implements repositories.TranscriptionRepository
func (r *TranscriptionRepository) Insert(ctx context.Context, transcription *entities.Transcription) ([]*entities.Transcription, error) {
	if transcription == nil {
		return nil, errors.New("transcription cannot be nil")
	}
	if err := transcription.Validate(); err != nil {
		return nil, err
	}

	rows := []insertRow{{
		FileURL:       transcription.FileURL,
		Transcription: transcription.Text,
	}}

	var stored []storedRow
	if err := r.client.Insert(ctx, r.table, rows, &stored); err != nil {
		return nil, err
	}

	inserted := make([]*entities.Transcription, 0, len(stored))
	for _, row := range stored {
		inserted = append(inserted, row.toEntity())
	}
	return inserted, nil
}
