package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	OldValue   json.RawMessage `json:"old_value,omitempty" db:"old_value"`
	NewValue   json.RawMessage `json:"new_value,omitempty" db:"new_value"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditPublishChangeset = "PUBLISH_CHANGESET"
	AuditTrashChangeset   = "TRASH_CHANGESET"
	AuditDeleteChangeset  = "DELETE_CHANGESET"
	AuditUpdateSetting    = "UPDATE_SETTING"
)
