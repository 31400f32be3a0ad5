package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/types"
)

type SolveRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.SolveRun) (*types.SolveRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SolveRun, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SolveRun, error)
}

type solveRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSolveRunRepo(db *gorm.DB, baseLog *logger.Logger) SolveRunRepo {
	return &solveRunRepo{db: db, log: baseLog.With("repo", "SolveRunRepo")}
}

func (r *solveRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.SolveRun) (*types.SolveRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *solveRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SolveRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.SolveRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *solveRunRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.SolveRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var runs []*types.SolveRun
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
