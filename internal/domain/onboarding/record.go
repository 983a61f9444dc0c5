package onboarding

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionRecord is the persisted shape of a Session. form_data is an opaque
// JSON blob to the store.
type SessionRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FormData     datatypes.JSON `gorm:"column:form_data;type:jsonb;not null" json:"form_data"`
	CurrentStep  int            `gorm:"column:current_step;not null;default:0" json:"current_step"`
	LastActivity time.Time      `gorm:"column:last_activity;not null;index" json:"last_activity"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (SessionRecord) TableName() string { return "onboarding_sessions" }

func EncodeFormData(fd FormData) (datatypes.JSON, error) {
	b, err := json.Marshal(fd)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}
	return datatypes.JSON(b), nil
}

func DecodeFormData(raw []byte) (FormData, error) {
	var fd FormData
	if len(raw) == 0 {
		return fd, nil
	}
	if err := json.Unmarshal(raw, &fd); err != nil {
		return FormData{}, fmt.Errorf("decode form data: %w", err)
	}
	return fd, nil
}

func (r SessionRecord) ToSession() (*Session, error) {
	fd, err := DecodeFormData(r.FormData)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:           r.ID,
		CurrentStep:  r.CurrentStep,
		FormData:     fd,
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func NewSessionRecord(s Session) (*SessionRecord, error) {
	blob, err := EncodeFormData(s.FormData)
	if err != nil {
		return nil, err
	}
	return &SessionRecord{
		ID:           s.ID,
		FormData:     blob,
		CurrentStep:  s.CurrentStep,
		LastActivity: s.LastActivity,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}, nil
}
