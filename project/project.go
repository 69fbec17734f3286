package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Project is a translation project: one uploaded video with its
// transcription/translation pipeline state. Subtitle and video content
// live in object storage and are not modeled here.
type Project struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Status string

const (
	StatusUploading    Status = "uploading"
	StatusTranscribing Status = "transcribing"
	StatusTranslating  Status = "translating"
	StatusReady        Status = "ready"
	StatusFailed       Status = "failed"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("project owned by another user")
)
