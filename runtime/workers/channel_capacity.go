package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"chat-relay/observability"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length of internal queues.
// len and cap never block, so sampling does not slow the producers down.
// A queue filled above lowCapacityThreshold percent is reported as a warning.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	channels             []NamedChannel
	metrics              *observability.Metrics
	monitoring           *observability.MonitoringManager
	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	metrics *observability.Metrics, monitoring *observability.MonitoringManager,
	metricInterval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:                  log,
		channels:             channels,
		metrics:              metrics,
		monitoring:           monitoring,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *ChannelCapacityWorker) sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		length, capacity := v.Len(), v.Cap()
		w.metrics.QueueLength.WithLabelValues(nc.Name).Set(float64(length))
		w.monitoring.UpdateQueue(length, capacity)
		if isLowCapacity(length, capacity, w.lowCapacityThreshold) {
			w.log.Warn("Queue almost full", "name", nc.Name, "length", length, "capacity", capacity)
		}
	}
}

// isLowCapacity tells whether length reached threshold percent of capacity.
func isLowCapacity(length, capacity, threshold int) bool {
	if capacity == 0 {
		return false
	}
	return length*100 >= capacity*threshold
}
