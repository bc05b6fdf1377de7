package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChangesetStatus string

const (
	StatusAutoDraft ChangesetStatus = "auto-draft"
	StatusDraft     ChangesetStatus = "draft"
	StatusPending   ChangesetStatus = "pending"
	StatusFuture    ChangesetStatus = "future"
	StatusPublish   ChangesetStatus = "publish"
	StatusTrash     ChangesetStatus = "trash"
)

func (s ChangesetStatus) IsValid() bool {
	switch s {
	case StatusAutoDraft, StatusDraft, StatusPending, StatusFuture, StatusPublish, StatusTrash:
		return true
	}
	return false
}

// Terminal reports whether the changeset is frozen: no edit transition ever
// leaves publish or trash.
func (s ChangesetStatus) Terminal() bool {
	return s == StatusPublish || s == StatusTrash
}

var changesetUUIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsValidChangesetUUID checks the 8-4-4-4-12 lowercase hex shape. Any
// generator producing this shape is acceptable, so this is deliberately
// looser than an RFC 4122 parse.
func IsValidChangesetUUID(s string) bool {
	return changesetUUIDPattern.MatchString(s)
}

func NewChangesetUUID() string {
	return strings.ToLower(uuid.NewString())
}

// SettingParams is one settings-document entry: value, stamped type and
// user_id, plus any custom params the caller supplied.
type SettingParams map[string]any

type SettingsDoc map[string]SettingParams

// Changeset is the persisted draft document.
type Changeset struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UUID      string          `json:"uuid" db:"uuid"`
	Status    ChangesetStatus `json:"status" db:"status"`
	Title     string          `json:"title" db:"title"`
	AuthorID  uuid.UUID       `json:"author" db:"author_id"`
	Date      *time.Time      `json:"date,omitempty" db:"date"`
	Content   []byte          `json:"-" db:"content"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Settings decodes the stored document. Reads degrade gracefully: malformed
// or non-object content yields an empty map.
func (c *Changeset) Settings() SettingsDoc {
	return DecodeSettings(c.Content)
}

func DecodeSettings(raw []byte) SettingsDoc {
	doc := SettingsDoc{}
	if len(raw) == 0 {
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return SettingsDoc{}
	}
	return doc
}

func EncodeSettings(doc SettingsDoc) []byte {
	raw, err := json.Marshal(doc)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// TitleInput accepts either a plain string or a {raw: ...} object.
type TitleInput struct {
	Raw string
	Set bool
}

func (t *TitleInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Raw = s
		t.Set = true
		return nil
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Raw = obj.Raw
	t.Set = true
	return nil
}

type SaveChangesetInput struct {
	UUID     string          `json:"uuid"`
	Title    *TitleInput     `json:"title"`
	Status   *string         `json:"status"`
	Date     *string         `json:"date"`
	DateGMT  *string         `json:"date_gmt"`
	Author   *uuid.UUID      `json:"author"`
	Settings json.RawMessage `json:"settings"`
}

type ChangesetFilter struct {
	Author        *uuid.UUID
	AuthorExclude *uuid.UUID
	Statuses      []ChangesetStatus
	Search        string
	OrderBy       string
	Order         string
}

type TitleField struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// ChangesetResponse is the REST representation of a changeset.
type ChangesetResponse struct {
	UUID              string            `json:"uuid"`
	Status            ChangesetStatus   `json:"status"`
	Title             TitleField        `json:"title"`
	Date              *string           `json:"date"`
	DateGMT           *string           `json:"date_gmt"`
	Author            uuid.UUID         `json:"author"`
	Settings          SettingsDoc       `json:"settings"`
	SettingValidities SettingValidities `json:"setting_validities,omitempty"`
	NextChangesetUUID string            `json:"next_changeset_uuid,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type DeleteChangesetResult struct {
	Deleted  bool               `json:"deleted"`
	Previous *ChangesetResponse `json:"previous"`
}
