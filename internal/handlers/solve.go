package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewday-backend/internal/schedule"
	"github.com/yungbote/interviewday-backend/internal/services"
)

type SolveHandler struct {
	solve services.SolveService
}

func NewSolveHandler(solve services.SolveService) *SolveHandler {
	return &SolveHandler{solve: solve}
}

// POST /api/solve
func (h *SolveHandler) Solve(c *gin.Context) {
	var req services.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := h.solve.Solve(c.Request.Context(), req)
	if err != nil {
		var cycleErr *schedule.CycleError
		if errors.As(err, &cycleErr) {
			RespondError(c, http.StatusUnprocessableEntity, "precedence_cycle", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	RespondOK(c, resp)
}

// GET /api/solve/:id
func (h *SolveHandler) GetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
		return
	}
	run, err := h.solve.GetRun(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "run_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "run_lookup_failed", err)
		return
	}
	RespondOK(c, gin.H{"run": run})
}

// GET /api/solve/:id/rows
func (h *SolveHandler) GetRows(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
		return
	}
	rows, err := h.solve.GetRows(c.Request.Context(), runID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "rows_lookup_failed", err)
		return
	}
	RespondOK(c, gin.H{"rows": rows})
}
