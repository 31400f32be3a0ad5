package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/repos"
	"github.com/yungbote/interviewday-backend/internal/schedule"
	"github.com/yungbote/interviewday-backend/internal/sse"
	"github.com/yungbote/interviewday-backend/internal/types"
)

type ActivityInput struct {
	Name            string `json:"name" binding:"required"`
	Mode            string `json:"mode" binding:"required,oneof=individual batched parallel"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	RoomType        string `json:"room_type" binding:"required"`
	MinCapacity     int    `json:"min_capacity" binding:"min=0"`
	MaxCapacity     int    `json:"max_capacity" binding:"min=0"`
}

type JobCodeInput struct {
	Code           string          `json:"code" binding:"required"`
	CandidateCount int             `json:"candidate_count" binding:"required,min=1"`
	Activities     map[string]bool `json:"activities" binding:"required"`
}

type RoomTemplateInput struct {
	RoomType string `json:"room_type" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	// Per job code, the suffix letters its candidates may use, e.g.
	// {"ENG": "AB"}. Absent means every suffix is eligible.
	JobCodeSuffixes map[string]string `json:"job_code_suffixes,omitempty"`
}

type WindowInput struct {
	JobCode string `json:"job_code" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Start   string `json:"start" binding:"required"`
	End     string `json:"end" binding:"required"`
}

type LunchInput struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type RuleInput struct {
	Predecessor string `json:"predecessor" binding:"required"`
	Successor   string `json:"successor" binding:"required"`
	GapMinutes  int    `json:"gap_minutes" binding:"min=0"`
	Adjacent    bool   `json:"adjacent"`
}

type SolveOptions struct {
	Mode              string `json:"mode" binding:"omitempty,oneof=heuristic exact"`
	TimeBudgetSeconds int    `json:"time_budget_seconds" binding:"min=0"`
}

type SolveRequest struct {
	Dates         []string            `json:"dates" binding:"required,min=1"`
	Activities    []ActivityInput     `json:"activities" binding:"required,min=1,dive"`
	JobCodes      []JobCodeInput      `json:"job_codes" binding:"required,min=1,dive"`
	RoomTemplates []RoomTemplateInput `json:"room_templates" binding:"required,min=1,dive"`
	Windows       []WindowInput       `json:"windows" binding:"required,min=1,dive"`
	Lunch         *LunchInput         `json:"lunch,omitempty"`
	Rules         []RuleInput         `json:"rules" binding:"dive"`
	Options       SolveOptions        `json:"options"`
}

type DayReport struct {
	Date       string                     `json:"date"`
	Status     schedule.SolveStatus       `json:"status"`
	ItemCount  int                        `json:"item_count"`
	Stats      []schedule.StayTimeSummary `json:"stats,omitempty"`
	Diagnostic *schedule.Diagnostic       `json:"diagnostic,omitempty"`
}

type SolveResponse struct {
	RunID  uuid.UUID            `json:"run_id"`
	Status schedule.SolveStatus `json:"status"`
	Days   []DayReport          `json:"days"`
}

type SolveService interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error)
	GetRun(ctx context.Context, id uuid.UUID) (*types.SolveRun, error)
	GetRows(ctx context.Context, id uuid.UUID) ([]*types.ScheduleRow, error)
}

type solveService struct {
	db     *gorm.DB
	log    *logger.Logger
	policy schedule.Policy
	runs   repos.SolveRunRepo
	rows   repos.ScheduleRowRepo
	hub    *sse.SSEHub
}

func NewSolveService(db *gorm.DB, baseLog *logger.Logger, policy schedule.Policy, runs repos.SolveRunRepo, rows repos.ScheduleRowRepo, hub *sse.SSEHub) SolveService {
	return &solveService{
		db:     db,
		log:    baseLog.With("service", "SolveService"),
		policy: policy,
		runs:   runs,
		rows:   rows,
		hub:    hub,
	}
}

func (s *solveService) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	days, err := buildDayInputs(req)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	emitter := newRunEmitter(s.hub, runID)
	solver := schedule.NewSolver(s.policy, emitter)

	if s.hub != nil {
		s.hub.Broadcast(sse.SSEMessage{
			Channel: sse.RunChannel(runID),
			Event:   sse.SSEEventSolveStarted,
			Data:    map[string]any{"run_id": runID, "dates": req.Dates},
		})
	}

	mode := req.Options.Mode
	if mode == "" {
		mode = "heuristic"
	}

	var results []schedule.DayResult
	switch mode {
	case "exact":
		budget := time.Duration(req.Options.TimeBudgetSeconds) * time.Second
		for _, day := range days {
			res, outcome := solver.SolveDayExact(ctx, day, budget)
			s.log.Info("Exact solve finished for date", "date", day.Date, "outcome", outcome, "status", res.Status)
			results = append(results, res)
		}
	default:
		results, err = solver.Solve(ctx, days)
		if err != nil {
			return nil, err
		}
	}

	run, err := s.persist(ctx, runID, mode, req, results)
	if err != nil {
		return nil, err
	}

	resp := &SolveResponse{RunID: run.ID, Status: schedule.SolveStatus(run.Status)}
	for _, res := range results {
		resp.Days = append(resp.Days, DayReport{
			Date:       res.Date,
			Status:     res.Status,
			ItemCount:  len(res.Items),
			Stats:      res.Stats,
			Diagnostic: res.Diagnostic,
		})
	}

	if s.hub != nil {
		s.hub.Broadcast(sse.SSEMessage{
			Channel: sse.RunChannel(runID),
			Event:   sse.SSEEventSolveCompleted,
			Data:    resp,
		})
	}
	return resp, nil
}

// persist writes the run and the successful days' rows in one transaction.
func (s *solveService) persist(ctx context.Context, runID uuid.UUID, mode string, req SolveRequest, results []schedule.DayResult) (*types.SolveRun, error) {
	status := schedule.StatusOK
	var diagnostics []schedule.Diagnostic
	var stats []schedule.StayTimeSummary
	for _, res := range results {
		if res.Status != schedule.StatusOK && status == schedule.StatusOK {
			status = res.Status
		}
		if res.Diagnostic != nil {
			diagnostics = append(diagnostics, *res.Diagnostic)
		}
		stats = append(stats, res.Stats...)
	}

	datesJSON, _ := json.Marshal(req.Dates)
	diagJSON, _ := json.Marshal(diagnostics)
	statsJSON, _ := json.Marshal(stats)

	run := &types.SolveRun{
		ID:          runID,
		Status:      string(status),
		Mode:        mode,
		Dates:       datatypes.JSON(datesJSON),
		Diagnostics: datatypes.JSON(diagJSON),
		Stats:       datatypes.JSON(statsJSON),
	}

	var rows []*types.ScheduleRow
	for _, res := range results {
		if res.Status != schedule.StatusOK && res.Status != schedule.StatusTimeLimit {
			continue
		}
		for _, it := range res.Items {
			rows = append(rows, &types.ScheduleRow{
				ID:            uuid.New(),
				SolveRunID:    runID,
				CandidateID:   it.CandidateID,
				JobCode:       it.JobCode,
				InterviewDate: it.Date,
				Activity:      it.Activity,
				Room:          it.Room,
				StartTime:     it.Start.Clock(),
				EndTime:       it.End.Clock(),
				GroupSize:     it.GroupSize,
			})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.runs.Create(ctx, tx, run); err != nil {
			return err
		}
		if _, err := s.rows.CreateBatch(ctx, tx, rows); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to persist solve run", "error", err, "run_id", runID)
		return nil, fmt.Errorf("persist solve run: %w", err)
	}
	return run, nil
}

func (s *solveService) GetRun(ctx context.Context, id uuid.UUID) (*types.SolveRun, error) {
	return s.runs.GetByID(ctx, nil, id)
}

func (s *solveService) GetRows(ctx context.Context, id uuid.UUID) ([]*types.ScheduleRow, error) {
	return s.rows.GetBySolveRunID(ctx, nil, id)
}
