// Package notify defines how finished planning runs are announced to
// downstream consumers.
package notify

import (
	"context"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// PlanNotification summarizes a finished planning run.
type PlanNotification struct {
	RunID      string              `json:"run_id"`
	Status     string              `json:"status"`
	Objective  float64             `json:"objective"`
	Violations int                 `json:"violations"`
	Years      []model.YearSummary `json:"years,omitempty"`
	Error      string              `json:"error,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Publisher announces plan notifications.
type Publisher interface {
	PublishPlan(ctx context.Context, n PlanNotification) error
	Close()
}

// NopPublisher drops every notification.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(context.Context, PlanNotification) error { return nil }
func (NopPublisher) Close()                                             {}
