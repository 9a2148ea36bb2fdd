package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dparedesb/servicetimes/internal/rows"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WS is the websocket-backed gateway. One connection per terminal and
// collection; a read pump decodes snapshot broadcasts, writes go out on
// the same connection guarded by a mutex. A broken read reconnects with
// backoff and re-requests a snapshot, which is the only recovery path
// the contract defines.
type WS struct {
	url           string
	collection    string
	logger        *zap.Logger
	dialer        *websocket.Dialer
	reconnectWait time.Duration

	mu      sync.Mutex
	conn    *websocket.Conn
	started bool

	snapshots chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewWS(url, collection string, logger *zap.Logger) *WS {
	return &WS{
		url:           url,
		collection:    collection,
		logger:        logger,
		dialer:        websocket.DefaultDialer,
		reconnectWait: 2 * time.Second,
		snapshots:     make(chan Snapshot, 8),
		done:          make(chan struct{}),
	}
}

func (w *WS) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.New("gateway already open")
	}

	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial gateway %s: %w", w.url, err)
	}
	w.conn = conn
	w.started = true

	w.wg.Add(1)
	go w.readPump()

	w.logger.Info("gateway connected", zap.String("url", w.url), zap.String("collection", w.collection))
	return nil
}

func (w *WS) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.conn != nil {
			_ = w.conn.Close()
		}
		w.mu.Unlock()
		w.wg.Wait()
		close(w.snapshots)
	})
	return nil
}

func (w *WS) Snapshots() <-chan Snapshot {
	return w.snapshots
}

// Emit serializes the intent and writes it out. Delivery is not
// acknowledged; a write error is reported but the caller's optimistic
// local state stands either way.
func (w *WS) Emit(ctx context.Context, event string, payload any) error {
	env := envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal intent %s: %w", event, err)
		}
		env.Data = data
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return fmt.Errorf("gateway not connected, intent %s dropped", event)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(deadline)
	}
	if err := w.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to write intent %s: %w", event, err)
	}
	return nil
}

func (w *WS) readPump() {
	defer w.wg.Done()
	for {
		w.mu.Lock()
		conn := w.conn
		w.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-w.done:
				return
			default:
			}
			w.logger.Warn("gateway read failed, reconnecting", zap.Error(err))
			if !w.reconnect() {
				return
			}
			continue
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			w.logger.Warn("failed to decode gateway message", zap.Error(err))
			continue
		}
		if env.Event != Event(VerbSnapshot, w.collection) {
			continue
		}

		var rs []rows.Row
		if err := json.Unmarshal(env.Data, &rs); err != nil {
			w.logger.Warn("failed to decode snapshot rows", zap.Error(err))
			continue
		}
		w.push(Snapshot{Collection: w.collection, Rows: rs})
	}
}

// push delivers a snapshot without ever blocking the read pump. When the
// buffer is full the oldest snapshot is discarded: only the latest
// broadcast matters, every snapshot is the full state.
func (w *WS) push(snap Snapshot) {
	for {
		select {
		case w.snapshots <- snap:
			return
		default:
		}
		select {
		case <-w.snapshots:
		default:
		}
	}
}

// reconnect dials until it succeeds or the gateway is closed, then
// re-requests the snapshot so the store reconverges.
func (w *WS) reconnect() bool {
	for {
		select {
		case <-w.done:
			return false
		case <-time.After(w.reconnectWait):
		}

		conn, _, err := w.dialer.Dial(w.url, nil)
		if err != nil {
			w.logger.Warn("gateway reconnect failed", zap.Error(err))
			continue
		}

		w.mu.Lock()
		w.conn = conn
		w.mu.Unlock()
		w.logger.Info("gateway reconnected", zap.String("url", w.url))

		if err := w.Emit(context.Background(), Event(VerbGet, w.collection), nil); err != nil {
			w.logger.Warn("failed to re-request snapshot", zap.Error(err))
		}
		return true
	}
}
