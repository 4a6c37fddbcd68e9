package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/MaleyDenis/infoBro/metrics"
	"github.com/MaleyDenis/infoBro/model"
	"github.com/nats-io/nats.go"
)

// SubjectRunCompleted carries every terminal run. Read clients subscribe
// here to invalidate cached page results: connectors only add or update
// items, so invalidating on any successful completion is always safe,
// and single-item caches stay valid.
const SubjectRunCompleted = "news.runs.completed"

// RunCompletedEvent is the invalidation signal published per run.
type RunCompletedEvent struct {
	Connector  string           `json:"connector"`
	SourceType model.SourceType `json:"source_type"`
	SourceID   string           `json:"source_id"`
	Status     model.RunStatus  `json:"status"`
	Processed  int              `json:"processed"`
	Error      string           `json:"error,omitempty"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Publisher sends run lifecycle events to NATS. A nil Publisher is valid
// and drops everything, so the service runs without NATS configured.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}

// RunCompleted publishes the event for one terminal run. Publish failures
// are logged, not propagated: eventing must never fail a run that already
// wrote its items.
func (p *Publisher) RunCompleted(event RunCompletedEvent) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal run event for %s: %v", event.Connector, err)
		return
	}

	if err := p.conn.Publish(SubjectRunCompleted, data); err != nil {
		log.Printf("Failed to publish run event for %s: %v", event.Connector, err)
		metrics.EventsPublished.WithLabelValues(SubjectRunCompleted, "error").Inc()
		return
	}

	metrics.EventsPublished.WithLabelValues(SubjectRunCompleted, "ok").Inc()
}
