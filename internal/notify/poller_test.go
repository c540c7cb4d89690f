package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerDecodesRelayStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mi-topic/json", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("poll"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))

		w.Write([]byte(`{"id":"m1","time":1700000000,"title":"Pedido","message":"Llegó el proveedor"}
{"id":"","time":1700000001,"title":"keepalive","message":""}
{"id":"m2","time":1700000002,"title":"Aviso","message":"Corte pendiente"}
`))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL)
	items, err := p.Poll(context.Background(), "mi-topic", time.Unix(1699999999, 0))
	require.NoError(t, err)

	// Messages without an id are relay keepalives, dropped.
	require.Len(t, items, 2)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, "webhook", items[0].Source)
	assert.Equal(t, time.Unix(1700000000, 0), items[0].CreatedAt)
	assert.Equal(t, "Corte pendiente", items[1].Body)
}

func TestPollerRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPoller(srv.URL)
	_, err := p.Poll(context.Background(), "t", time.Now())
	assert.Error(t, err)
}
