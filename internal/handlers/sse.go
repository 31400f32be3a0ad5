package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{log: log.With("handler", "SSEHandler"), hub: hub}
}

// GET /api/sse/stream?run=<run-id>
//
// One connection follows one solve run. The client holds the
// connection open and receives SolveStarted, SolveProgress and
// SolveCompleted events for that run.
func (h *SSEHandler) Stream(c *gin.Context) {
	runID, err := uuid.Parse(c.Query("run"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
		return
	}

	client := h.hub.NewSSEClient()
	h.hub.AddChannel(client, sse.RunChannel(runID))
	h.log.Info("SSE stream open", "clientID", client.ID, "runID", runID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Info("SSE stream closed", "clientID", client.ID, "runID", runID)
}
