package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/types"
)

type ScheduleRowRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleRow) ([]*types.ScheduleRow, error)
	GetBySolveRunID(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.ScheduleRow, error)
	GetByCandidate(ctx context.Context, tx *gorm.DB, runID uuid.UUID, candidateID string) ([]*types.ScheduleRow, error)
	DeleteBySolveRunID(ctx context.Context, tx *gorm.DB, runID uuid.UUID) error
}

type scheduleRowRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRowRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRowRepo {
	return &scheduleRowRepo{db: db, log: baseLog.With("repo", "ScheduleRowRepo")}
}

func (r *scheduleRowRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleRow) ([]*types.ScheduleRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ScheduleRow{}, nil
	}
	if err := transaction.WithContext(ctx).CreateInBatches(&rows, 200).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleRowRepo) GetBySolveRunID(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.ScheduleRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ScheduleRow
	if err := transaction.WithContext(ctx).
		Where("solve_run_id = ?", runID).
		Order("interview_date, candidate_id, start_time").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleRowRepo) GetByCandidate(ctx context.Context, tx *gorm.DB, runID uuid.UUID, candidateID string) ([]*types.ScheduleRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ScheduleRow
	if err := transaction.WithContext(ctx).
		Where("solve_run_id = ? AND candidate_id = ?", runID, candidateID).
		Order("start_time").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleRowRepo) DeleteBySolveRunID(ctx context.Context, tx *gorm.DB, runID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("solve_run_id = ?", runID).
		Delete(&types.ScheduleRow{}).Error
}
