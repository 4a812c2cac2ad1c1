package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/shotctl/internal/domain"
	"gorm.io/gorm"
)

// HistoryRepository stores capture outcomes.
type HistoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewHistoryRepository creates a new HistoryRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *HistoryRepository: repository instance bound to db.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db, now: time.Now}
}

// Record inserts a capture record, assigning an ID and timestamp when unset.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - rec: record to persist; updated in place.
// Returns:
//   - error: non-nil if the insert fails.
func (r *HistoryRepository) Record(ctx context.Context, rec *domain.CaptureRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// ListRecent returns the newest records first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records; non-positive means 20.
// Returns:
//   - []domain.CaptureRecord: records ordered by creation time, newest first.
//   - error: non-nil if the query fails.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.CaptureRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []domain.CaptureRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountByKind returns how many records exist per capture kind.
func (r *HistoryRepository) CountByKind(ctx context.Context) (map[domain.CaptureKind]int64, error) {
	var rows []struct {
		Kind  domain.CaptureKind
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.CaptureRecord{}).
		Select("kind, count(*) as count").
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.CaptureKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}
