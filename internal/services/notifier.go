package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/interviewday-backend/internal/schedule"
	"github.com/yungbote/interviewday-backend/internal/sse"
)

// runEmitter forwards engine progress events onto the run's SSE channel.
type runEmitter struct {
	hub     *sse.SSEHub
	channel string
}

func newRunEmitter(hub *sse.SSEHub, runID uuid.UUID) schedule.Emitter {
	return &runEmitter{hub: hub, channel: sse.RunChannel(runID)}
}

func (e *runEmitter) Emit(ev schedule.Event) {
	if e.hub == nil {
		return
	}
	e.hub.Broadcast(sse.SSEMessage{
		Channel: e.channel,
		Event:   sse.SSEEventSolveProgress,
		Data:    ev,
	})
}
