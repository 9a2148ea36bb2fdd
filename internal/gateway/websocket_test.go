package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// fakeBackend upgrades incoming connections and exposes the raw frames
// each client writes, plus a way to broadcast frames back.
type fakeBackend struct {
	t        *testing.T
	upgrader websocket.Upgrader

	conns    chan *websocket.Conn
	received chan envelope
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	b := &fakeBackend{
		t:        t,
		conns:    make(chan *websocket.Conn, 4),
		received: make(chan envelope, 16),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b.conns <- conn
		for {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			b.received <- env
		}
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) waitConn() *websocket.Conn {
	select {
	case conn := <-b.conns:
		return conn
	case <-time.After(3 * time.Second):
		b.t.Fatal("no client connected in time")
		return nil
	}
}

func (b *fakeBackend) waitEnvelope() envelope {
	select {
	case env := <-b.received:
		return env
	case <-time.After(3 * time.Second):
		b.t.Fatal("no frame received in time")
		return envelope{}
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSEmitWritesEnvelope(t *testing.T) {
	backend, srv := newFakeBackend(t)

	gw := NewWS(wsURL(srv), "arribo", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()
	backend.waitConn()

	payload := map[string]any{"id": "row-1", "data": map[string]any{"descripcion": "mesa 4"}}
	require.NoError(t, gw.Emit(context.Background(), "actualizar_arribo", payload))

	env := backend.waitEnvelope()
	assert.Equal(t, "actualizar_arribo", env.Event)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &decoded))
	assert.Equal(t, "row-1", decoded["id"])
}

func TestWSEmitWithoutPayload(t *testing.T) {
	backend, srv := newFakeBackend(t)

	gw := NewWS(wsURL(srv), "arribo", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()
	backend.waitConn()

	require.NoError(t, gw.Emit(context.Background(), "get_arribo", nil))

	env := backend.waitEnvelope()
	assert.Equal(t, "get_arribo", env.Event)
	assert.Empty(t, env.Data)
}

func TestWSDeliversSnapshots(t *testing.T) {
	backend, srv := newFakeBackend(t)

	gw := NewWS(wsURL(srv), "productos", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()
	conn := backend.waitConn()

	rs := []rows.Row{{ID: "a", Description: "una"}, {ID: "b"}}
	data, err := json.Marshal(rs)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(envelope{Event: "update_productos", Data: data}))

	select {
	case snap := <-gw.Snapshots():
		assert.Equal(t, "productos", snap.Collection)
		require.Len(t, snap.Rows, 2)
		assert.Equal(t, "una", snap.Rows[0].Description)
	case <-time.After(3 * time.Second):
		t.Fatal("no snapshot delivered in time")
	}
}

func TestWSIgnoresForeignEvents(t *testing.T) {
	backend, srv := newFakeBackend(t)

	gw := NewWS(wsURL(srv), "productos", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()
	conn := backend.waitConn()

	// Another collection's broadcast and a garbage frame must both be
	// skipped without killing the pump.
	require.NoError(t, conn.WriteJSON(envelope{Event: "update_mesas", Data: []byte(`[]`)}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	rs, _ := json.Marshal([]rows.Row{{ID: "a"}})
	require.NoError(t, conn.WriteJSON(envelope{Event: "update_productos", Data: rs}))

	select {
	case snap := <-gw.Snapshots():
		require.Len(t, snap.Rows, 1)
		assert.Equal(t, "a", snap.Rows[0].ID)
	case <-time.After(3 * time.Second):
		t.Fatal("no snapshot delivered in time")
	}
}

func TestWSOpenTwice(t *testing.T) {
	backend, srv := newFakeBackend(t)
	_ = backend

	gw := NewWS(wsURL(srv), "arribo", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()

	assert.Error(t, gw.Open(context.Background()))
}

func TestWSEmitBeforeOpen(t *testing.T) {
	gw := NewWS("ws://127.0.0.1:0/sync", "arribo", zap.NewNop())
	assert.Error(t, gw.Emit(context.Background(), "get_arribo", nil))
}

func TestWSReconnectRequestsSnapshot(t *testing.T) {
	backend, srv := newFakeBackend(t)

	gw := NewWS(wsURL(srv), "arribo", zap.NewNop())
	gw.reconnectWait = 10 * time.Millisecond
	require.NoError(t, gw.Open(context.Background()))
	defer gw.Close()

	// Kill the connection server-side; the pump must dial back in and
	// re-request the collection snapshot.
	first := backend.waitConn()
	require.NoError(t, first.Close())

	backend.waitConn()
	env := backend.waitEnvelope()
	assert.Equal(t, "get_arribo", env.Event)
}

func TestWSCloseIsIdempotent(t *testing.T) {
	backend, srv := newFakeBackend(t)
	_ = backend

	gw := NewWS(wsURL(srv), "arribo", zap.NewNop())
	require.NoError(t, gw.Open(context.Background()))

	require.NoError(t, gw.Close())
	require.NoError(t, gw.Close())

	// The snapshot channel closes with the gateway.
	_, open := <-gw.Snapshots()
	assert.False(t, open)
}
