package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	salesapp "github.com/glowpos/backend/internal/application/sales"
	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeOrder rings up and pays one serum
func (f *apiFixture) completeOrder(t *testing.T) salesapp.OrderResponse {
	t.Helper()
	product := f.seedProduct(t, "SER-"+uuid.NewString()[:4], "Vitamin C Serum", "45.00")
	w := f.do(t, http.MethodPost, "/api/v1/sales/orders", map[string]any{
		"store_id": f.storeID,
		"items":    []map[string]any{{"product_id": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order salesapp.OrderResponse
	decode(t, w, &order)

	w = f.do(t, http.MethodPost, "/api/v1/sales/orders/"+order.ID.String()+"/complete", map[string]any{
		"payment_method": "card",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &order)
	return order
}

func TestRealtimeHandler_FeedAndCounters(t *testing.T) {
	f := newAPIFixture(t)
	order := f.completeOrder(t)

	w := f.do(t, http.MethodGet, "/api/v1/realtime/feed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var events []realtime.FeedEvent
	decode(t, w, &events)
	require.Len(t, events, 2)
	assert.Equal(t, realtime.FeedOrderStatus, events[0].Type)
	assert.Equal(t, realtime.FeedNewOrder, events[1].Type)
	assert.Equal(t, order.ID, events[1].EntityID)
	assert.True(t, events[0].AutoResolved)

	w = f.do(t, http.MethodGet, "/api/v1/realtime/counters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counters realtime.Counters
	decode(t, w, &counters)
	assert.Equal(t, "45", counters.TodaySales.String())

	t.Run("auto-resolved events cannot be dismissed", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/api/v1/realtime/feed/"+events[0].ID.String(), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/api/v1/realtime/feed/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("refresh clears the feed and keeps stored totals", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/realtime/refresh", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var snapshot struct {
			Events   []realtime.FeedEvent `json:"events"`
			Counters realtime.Counters    `json:"counters"`
		}
		decode(t, w, &snapshot)
		assert.Empty(t, snapshot.Events)
		assert.Equal(t, "45", snapshot.Counters.TodaySales.String())

		w = f.do(t, http.MethodGet, "/api/v1/realtime/feed", nil)
		var after []realtime.FeedEvent
		decode(t, w, &after)
		assert.Empty(t, after)
	})
}

type sseEvent struct {
	name string
	id   string
	data string
}

func readSSE(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return ev
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "id: "):
			ev.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestRealtimeHandler_Stream(t *testing.T) {
	f := newAPIFixture(t)
	srv := httptest.NewServer(f.engine)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/realtime/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	connected := readSSE(t, reader)
	assert.Equal(t, "connected", connected.name)
	assert.NotEmpty(t, connected.id)
	assert.Equal(t, "counters", readSSE(t, reader).name)
	assert.Equal(t, 1, f.relay.SubscriberCount())

	f.completeOrder(t)

	var names []string
	var lastCounters realtime.Counters
	for len(names) < 4 {
		ev := readSSE(t, reader)
		names = append(names, ev.name)
		if ev.name == "counters" {
			require.NoError(t, json.Unmarshal([]byte(ev.data), &lastCounters))
		}
	}
	assert.Equal(t, []string{"feed_event", "counters", "feed_event", "counters"}, names)
	assert.Equal(t, "45", lastCounters.TodaySales.String())

	cancel()
	require.Eventually(t, func() bool { return f.relay.SubscriberCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRealtimeHandler_StreamLimit(t *testing.T) {
	f := newAPIFixture(t)
	f.relay.SetMaxSubscribers(1)

	sub, err := f.relay.Subscribe(context.Background(), f.tenantID, f.userID)
	require.NoError(t, err)
	defer f.relay.Unsubscribe(context.Background(), sub)

	w := f.do(t, http.MethodGet, "/api/v1/realtime/stream", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "MAX_CONNECTIONS_REACHED", env.Error.Code)
}

func TestSystemHandler_Health(t *testing.T) {
	f := newAPIFixture(t)

	w := f.doAs(t, "", http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	env := decode(t, w, &health)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "up", health.Database)
}

type downPinger struct{}

func (downPinger) PingContext(context.Context) error { return context.DeadlineExceeded }

func TestSystemHandler_HealthDatabaseDown(t *testing.T) {
	h := NewSystemHandler("glowpos", "test", downPinger{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var health HealthResponse
	env := decode(t, w, &health)
	assert.False(t, env.Success)
	assert.Equal(t, "down", health.Database)
}
