// file: websocket/test_helpers_test.go
package websocket

import (
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"league-predictor/metrics"
	"league-predictor/models"
	"league-predictor/services"
)

// fakeConn implements WSConn. ReadMessage pops queued inbound frames and returns
// io.EOF once they run out; writes are recorded.
type fakeConn struct {
	mu      sync.Mutex
	inbound [][]byte
	written []int
	closed  bool
}

func newFakeConn(frames ...string) *fakeConn {
	fc := &fakeConn{}
	for _, f := range frames {
		fc.inbound = append(fc.inbound, []byte(f))
	}
	return fc
}

func (fc *fakeConn) WriteMessage(messageType int, data []byte) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.written = append(fc.written, messageType)
	return nil
}

func (fc *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (fc *fakeConn) ReadMessage() (int, []byte, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.inbound) == 0 {
		return 0, nil, io.EOF
	}
	msg := fc.inbound[0]
	fc.inbound = fc.inbound[1:]
	return websocket.TextMessage, msg, nil
}

func (fc *fakeConn) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.closed = true
	return nil
}

func (fc *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345}
}

func (fc *fakeConn) SetReadLimit(limit int64)            {}
func (fc *fakeConn) SetReadDeadline(t time.Time) error   { return nil }
func (fc *fakeConn) SetPongHandler(h func(string) error) {}

func (fc *fakeConn) writtenTypes() []int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]int(nil), fc.written...)
}

// recordingPublisher captures published connection counts.
type recordingPublisher struct {
	mu     sync.Mutex
	counts []int
}

func (p *recordingPublisher) PublishConnections(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = append(p.counts, count)
}

func (p *recordingPublisher) last() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.counts) == 0 {
		return 0, false
	}
	return p.counts[len(p.counts)-1], true
}

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	recordingPublisher
	release chan struct{}
}

func (p *blockingPublisher) PublishConnections(count int) {
	<-p.release
	p.recordingPublisher.PublishConnections(count)
}

type hubFixture struct {
	hub *Hub
	svc *services.PredictionService
	reg *prometheus.Registry
	pub *recordingPublisher
}

func newHubFixture(t *testing.T, cfg HubConfig) *hubFixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	pub := &recordingPublisher{}
	cfg.Metrics = metrics.New(reg)
	if cfg.ConnectionObserver == nil {
		cfg.ConnectionObserver = pub
	}
	svc := services.NewPredictionService(models.DefaultLeague())
	hub := NewHub(svc, cfg)
	svc.SetInUse(hub.InUse)
	t.Cleanup(hub.Close)
	return &hubFixture{hub: hub, svc: svc, reg: reg, pub: pub}
}

// connect registers a fake connection for widgetID without starting any pumps.
func (f *hubFixture) connect(widgetID string, frames ...string) (*Connection, *fakeConn) {
	fc := newFakeConn(frames...)
	c := f.hub.newConnection(fc, widgetID)
	f.hub.register(c)
	return c, fc
}

// drain decodes every message queued on c without blocking.
func drain(t *testing.T, c *Connection) []OutboundMessage {
	t.Helper()
	var out []OutboundMessage
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return out
			}
			var msg OutboundMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}
