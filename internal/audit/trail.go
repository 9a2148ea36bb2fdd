// Package audit records every mutation intent a terminal emits. The
// trail batches intents off the hot path and publishes them to Kafka so
// operations can reconstruct who changed which row and when, which the
// fire-and-forget sync contract itself never tells you.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dparedesb/servicetimes/internal/metrics"
)

// Intent is one audited mutation.
type Intent struct {
	Event    string    `json:"event"`
	RowID    string    `json:"row_id,omitempty"`
	Screen   string    `json:"screen"`
	Terminal string    `json:"terminal"`
	At       time.Time `json:"at"`
}

// Recorder is what the board sees; Record must never block a UI handler.
type Recorder interface {
	Record(intent Intent)
}

// Trail aggregates intents into batches (by size or timeout) and hands
// them to workers that publish through the Producer.
type Trail struct {
	workerCount int
	batchSize   int
	timeout     time.Duration

	producer Producer
	logger   *zap.Logger

	inputChan  chan Intent
	batchChan  chan []Intent
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewTrail(producer Producer, logger *zap.Logger, workerCount, batchSize int, timeout time.Duration) *Trail {
	return &Trail{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		producer:    producer,
		logger:      logger,
		inputChan:   make(chan Intent, workerCount*batchSize*2),
		batchChan:   make(chan []Intent, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (t *Trail) Start(ctx context.Context) {
	t.wg.Add(1)
	go t.runAggregator()

	for i := 0; i < t.workerCount; i++ {
		t.wg.Add(1)
		go t.runWorker(i)
	}

	go func() {
		<-ctx.Done()
		t.Shutdown(context.Background())
	}()
}

// Record enqueues an intent. A saturated trail drops the intent rather
// than stall the event handler that produced it.
func (t *Trail) Record(intent Intent) {
	select {
	case t.inputChan <- intent:
	case <-t.shutdownCh:
	default:
		metrics.AuditDroppedTotal.Inc()
	}
}

func (t *Trail) Shutdown(ctx context.Context) {
	t.once.Do(func() {
		close(t.shutdownCh)

		done := make(chan struct{})
		go func() {
			t.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			t.logger.Info("audit trail drained")
		case <-ctx.Done():
			t.logger.Warn("audit trail shutdown timed out")
		}

		if err := t.producer.Close(); err != nil {
			t.logger.Error("failed to close audit producer", zap.Error(err))
		}
	})
}

func (t *Trail) runAggregator() {
	defer t.wg.Done()

	var (
		batch    []Intent
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		// Drain whatever arrived before shutdown closed the input path.
		for {
			select {
			case intent := <-t.inputChan:
				batch = append(batch, intent)
			default:
				if len(batch) > 0 {
					t.batchChan <- batch
				}
				close(t.batchChan)
				return
			}
		}
	}()

	for {
		select {
		case intent := <-t.inputChan:
			batch = append(batch, intent)
			if len(batch) >= t.batchSize {
				if timer != nil {
					timer.Stop()
				}
				t.batchChan <- batch
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(t.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			t.batchChan <- batch
			batch = nil
			timeoutC = nil

		case <-t.shutdownCh:
			return
		}
	}
}

func (t *Trail) runWorker(id int) {
	defer t.wg.Done()

	for batch := range t.batchChan {
		for _, intent := range batch {
			value, err := json.Marshal(intent)
			if err != nil {
				t.logger.Error("failed to marshal audit intent", zap.Error(err))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := t.producer.SendMessage(ctx, []byte(intent.RowID), value); err != nil {
				t.logger.Error("failed to publish audit intent",
					zap.Int("worker", id),
					zap.String("event", intent.Event),
					zap.Error(err))
			}
			cancel()
		}
	}
}
