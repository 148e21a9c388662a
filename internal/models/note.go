package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NoteTypeFull    = "full"
	NoteTypeShort   = "short"
	NoteTypeMindMap = "mindmap"
)

type Note struct {
	ID         uuid.UUID `json:"id"`
	TopicID    uuid.UUID `json:"topic_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ShortNotes string    `json:"short_notes"`
	MindMapURL *string   `json:"mind_map_url,omitempty"`
	NoteType   string    `json:"note_type"` // "full" | "short" | "mindmap"
	CreatedAt  time.Time `json:"created_at"`
}
