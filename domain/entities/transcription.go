package entities

import (
	"errors"
	"strings"
	"time"
)

// FileURLNotStored is written as the file reference of every persisted
// transcription; the relay never keeps the uploaded audio.
const FileURLNotStored = "NotStored"

// Upload represents an audio file received from a client
type Upload struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mimetype"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// IsEmpty reports whether the upload carries no audio bytes
func (u *Upload) IsEmpty() bool {
	return u == nil || len(u.Data) == 0
}

// TranscriptionResult is the transcript extracted from a provider response
type TranscriptionResult struct {
	Transcript string `json:"transcript"`
}

// IsEmpty reports whether the transcript is empty or whitespace only
func (r *TranscriptionResult) IsEmpty() bool {
	return r == nil || strings.TrimSpace(r.Transcript) == ""
}

// Transcription represents a stored transcription row
type Transcription struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	FileURL   string    `json:"file_url" bson:"file_url"`
	Text      string    `json:"transcription" bson:"transcription"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at"`
}

// NewTranscription creates a row for a transcript whose audio was not stored
func NewTranscription(text string) *Transcription {
	return &Transcription{
		FileURL: FileURLNotStored,
		Text:    text,
	}
}

// Validate validates the transcription row
func (t *Transcription) Validate() error {
	if t.FileURL == "" {
		return errors.New("file_url is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("transcription is required")
	}
	return nil
}
