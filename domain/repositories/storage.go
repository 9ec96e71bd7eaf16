package repositories

import (
	"context"

	"github.com/voxscribe/transcribe-relay/domain/entities"
)

// TranscriptionRepository defines data access methods for transcriptions
type TranscriptionRepository interface {
	// Insert stores a transcription row and returns the inserted rows
	Insert(ctx context.Context, transcription *entities.Transcription) ([]*entities.Transcription, error)
}
