package services

import (
	"context"
	"errors"
	"time"

	"piercing-studio-site/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSessionStore keeps sessions in the view_sessions table.
type SQLSessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLSessionStore migrates the sessions table and returns the store.
func NewSQLSessionStore(db *gorm.DB) (*SQLSessionStore, error) {
	if err := db.AutoMigrate(&models.ViewSession{}); err != nil {
		return nil, err
	}
	return &SQLSessionStore{db: db, now: time.Now}, nil
}

func (s *SQLSessionStore) Get(ctx context.Context, id uuid.UUID) (*models.ViewState, error) {
	var row models.ViewSession
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	state := models.ViewState(row.State)
	return &state, nil
}

func (s *SQLSessionStore) Save(ctx context.Context, id uuid.UUID, state *models.ViewState) error {
	now := s.now()
	row := models.ViewSession{
		ID:        id,
		State:     models.ViewStateJSON(*state),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.ViewSession{}, "id = ?", id).Error
}

func (s *SQLSessionStore) PruneIdle(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&models.ViewSession{})
	return result.RowsAffected, result.Error
}
