package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/MaleyDenis/infoBro/connector"
	"github.com/MaleyDenis/infoBro/events"
	"github.com/MaleyDenis/infoBro/metrics"
	"github.com/MaleyDenis/infoBro/model"
	"github.com/MaleyDenis/infoBro/store"
)

// Coordinator executes connector runs: it drains each connector's record
// stream, writes normalized items to the store and tracks per-connector
// run state. At most one non-terminal run exists per connector at any
// time.
type Coordinator struct {
	registry *connector.Registry
	store    store.ItemStore
	events   *events.Publisher
	timeout  time.Duration

	mu   sync.Mutex
	runs map[string]*model.Run
}

// New creates a Coordinator. events may be nil; timeout bounds each run's
// fetch (0 means no deadline).
func New(registry *connector.Registry, itemStore store.ItemStore, publisher *events.Publisher, timeout time.Duration) *Coordinator {
	return &Coordinator{
		registry: registry,
		store:    itemStore,
		events:   publisher,
		timeout:  timeout,
		runs:     make(map[string]*model.Run),
	}
}

// RunOne executes the connector registered under id. It fails with
// model.ErrNotFound for an unknown id and model.ErrAlreadyRunning when a
// run for the same connector is still in flight. The returned Run is a
// terminal snapshot; err is the abort cause when the run failed.
func (c *Coordinator) RunOne(ctx context.Context, id string) (model.Run, error) {
	conn, err := c.registry.Get(id)
	if err != nil {
		return model.Run{}, err
	}

	run, err := c.begin(id)
	if err != nil {
		return model.Run{}, err
	}

	processed, runErr := c.execute(ctx, conn)
	return c.finish(conn, run, processed, runErr), runErr
}

// RunAll executes every registered connector concurrently and returns
// once all of them reached a terminal status. Each connector is isolated:
// one failure never cancels the others, and failures are reported inside
// the per-connector result instead of as an error.
func (c *Coordinator) RunAll(ctx context.Context) map[string]model.RunResult {
	connectors := c.registry.All()

	results := make(map[string]model.RunResult, len(connectors))
	var wg sync.WaitGroup
	var resultMu sync.Mutex

	for _, conn := range connectors {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			run, err := c.RunOne(ctx, id)

			resultMu.Lock()
			defer resultMu.Unlock()

			if err != nil {
				results[id] = model.RunResult{
					Status:  model.RunFailed,
					Message: err.Error(),
				}
				return
			}
			results[id] = model.RunResult{
				Status:    run.Status,
				Processed: run.Processed,
			}
		}(conn.ID())
	}

	wg.Wait()
	return results
}

// Status returns the most recent run for a connector, if any.
func (c *Coordinator) Status(id string) (model.Run, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	run, ok := c.runs[id]
	if !ok {
		return model.Run{}, false
	}
	return *run, true
}

// begin claims the exclusion region for a connector: it refuses to start
// while the previous run is non-terminal.
func (c *Coordinator) begin(id string) (*model.Run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.runs[id]; ok && !existing.Status.Terminal() {
		return nil, fmt.Errorf("connector %s: %w", id, model.ErrAlreadyRunning)
	}

	run := &model.Run{
		ConnectorID: id,
		Status:      model.RunPending,
		StartedAt:   time.Now().UTC(),
	}
	c.runs[id] = run
	run.Status = model.RunRunning
	return run, nil
}

// execute drains the connector stream and upserts every normalized item,
// in yield order. Malformed records are skipped; a fetch failure or a
// mid-stream error aborts. Only new inserts count toward processed.
func (c *Coordinator) execute(ctx context.Context, conn connector.Connector) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	records, err := conn.Fetch(ctx)
	if err != nil {
		return 0, classify(err)
	}

	processed := 0
	for record := range records {
		if record.Err != nil {
			return processed, classify(record.Err)
		}

		item, err := conn.Normalize(record.Data)
		if err != nil {
			log.Printf("Skipping malformed record from %s: %v", conn.ID(), err)
			metrics.MalformedRecords.WithLabelValues(conn.ID()).Inc()
			continue
		}

		inserted, err := c.store.Upsert(ctx, item)
		if err != nil {
			return processed, classify(fmt.Errorf("store item from %s: %w", conn.ID(), err))
		}
		if inserted {
			processed++
			metrics.ItemsIngested.WithLabelValues(conn.ID(), "insert").Inc()
		} else {
			metrics.ItemsIngested.WithLabelValues(conn.ID(), "refresh").Inc()
		}
	}

	if err := ctx.Err(); err != nil {
		return processed, classify(err)
	}

	return processed, nil
}

// finish moves the run to its terminal status and publishes the
// completion event read clients use to invalidate cached pages.
func (c *Coordinator) finish(conn connector.Connector, run *model.Run, processed int, runErr error) model.Run {
	c.mu.Lock()
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Processed = processed
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	} else {
		run.Status = model.RunSucceeded
	}
	snapshot := *run
	c.mu.Unlock()

	metrics.RunsTotal.WithLabelValues(run.ConnectorID, string(snapshot.Status)).Inc()
	metrics.RunDuration.WithLabelValues(run.ConnectorID).Observe(now.Sub(snapshot.StartedAt).Seconds())

	if runErr != nil {
		log.Printf("Run failed for %s after %d items: %v", snapshot.ConnectorID, processed, runErr)
	} else {
		log.Printf("Run succeeded for %s: %d new items", snapshot.ConnectorID, processed)
	}

	c.events.RunCompleted(events.RunCompletedEvent{
		Connector:  snapshot.ConnectorID,
		SourceType: conn.SourceType(),
		SourceID:   conn.SourceID(),
		Status:     snapshot.Status,
		Processed:  snapshot.Processed,
		Error:      snapshot.Error,
		FinishedAt: now,
	})

	return snapshot
}

// classify maps context expiry onto the timeout error class; everything
// else passes through.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	return err
}
