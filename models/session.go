package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewSession is the SQL row behind a visitor session.
type ViewSession struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key"`
	State     ViewStateJSON `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (ViewSession) TableName() string {
	return "view_sessions"
}

func (s *ViewSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ViewStateJSON stores a ViewState in a single text column
type ViewStateJSON ViewState

func (j ViewStateJSON) Value() (driver.Value, error) {
	b, err := json.Marshal(ViewState(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *ViewStateJSON) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	var st ViewState
	if err := json.Unmarshal(b, &st); err != nil {
		return err
	}
	*j = ViewStateJSON(st)
	return nil
}
