package whisper

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Whisper is a shared voice note. Only the fields the trust engine needs
// are modeled here; media handling lives elsewhere.
type Whisper struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	OwnerID   uuid.UUID      `db:"owner_id" json:"owner_id"`
	Caption   sql.NullString `db:"caption" json:"caption,omitempty"`
	AudioURL  string         `db:"audio_url" json:"audio_url"`
	Flagged   bool           `db:"flagged" json:"flagged"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Comment is a text reply on a whisper
type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WhisperID uuid.UUID `db:"whisper_id" json:"whisper_id"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	Hidden    bool      `db:"hidden" json:"hidden"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
