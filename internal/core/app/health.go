// # internal/core/app/health.go
package app

import (
	"context"
	"time"
)

type HealthStatus struct {
	Status        string    `json:"status"`
	Session       string    `json:"session"`
	Models        int       `json:"models"`
	LastSessionID string    `json:"last_session_id,omitempty"`
	LastFindings  int       `json:"last_findings"`
	CheckedAt     time.Time `json:"checked_at"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	_ = ctx
	status := HealthStatus{Status: "up", CheckedAt: time.Now().UTC()}
	if s.app == nil {
		status.Status = "down"
		return status
	}
	status.Models = s.app.ModelCount()
	last := s.app.LastResult()
	if last.SessionID == "" {
		// Models may be loaded but no session has been published yet.
		status.Session = "idle"
	} else {
		status.Session = "analyzed"
	}
	status.LastSessionID = last.SessionID
	status.LastFindings = len(last.Findings)
	return status
}
