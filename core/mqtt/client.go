// Package mqtt defines how generated schedules leave the process over MQTT.
// The paho based implementation lives in infra/mqtt.
package mqtt

import (
	"context"

	"github.com/kilianp07/menucycle/core/schedule"
)

// Publisher pushes a generated schedule to subscribers.
type Publisher interface {
	PublishSchedule(ctx context.Context, s schedule.Schedule) error
}

// NopPublisher discards schedules. It is used when MQTT is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishSchedule(context.Context, schedule.Schedule) error { return nil }
