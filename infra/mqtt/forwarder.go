package mqtt

import (
	"context"
	"sync"
	"time"

	coremqtt "github.com/kilianp07/menucycle/core/mqtt"
	"github.com/kilianp07/menucycle/core/schedule"
	"github.com/kilianp07/menucycle/infra/logger"
	"github.com/kilianp07/menucycle/internal/eventbus"
)

// Forwarder drains schedule events from the bus and publishes them.
type Forwarder struct {
	bus *eventbus.Bus[schedule.Schedule]
	pub coremqtt.Publisher
	log logger.Logger
}

// NewForwarder returns a forwarder from bus to pub.
func NewForwarder(bus *eventbus.Bus[schedule.Schedule], pub coremqtt.Publisher) *Forwarder {
	return &Forwarder{bus: bus, pub: pub, log: logger.New("mqtt_forwarder")}
}

// Start subscribes immediately and forwards events in the background until
// ctx is done or the bus is closed. The returned function waits for the
// goroutine to exit.
func (f *Forwarder) Start(ctx context.Context) (wait func()) {
	ch := f.bus.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer f.bus.Unsubscribe(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-ch:
				if !ok {
					return
				}
				pctx, cancel := context.WithTimeout(ctx, 30*time.Second)
				if err := f.pub.PublishSchedule(pctx, s); err != nil {
					f.log.Errorf("forward schedule %s: %v", s.ID, err)
				}
				cancel()
			}
		}
	}()
	return wg.Wait
}
