package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"abarrotes-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	lastQuery string
	products  []models.Product
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]models.Product, error) {
	f.lastQuery = query
	return f.products, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "test-model", "test-image-model", 0.2)
}

func TestChatAskWithToolCall(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			// First round: the model asks for a catalog lookup.
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[
				{"id":"call_1","type":"function","function":{"name":"search_products","arguments":"{\"query\":\"cloralex\"}"}}
			]},"finish_reason":"tool_calls"}]}`))
			return
		}

		// Second round: the model saw the tool result and answers.
		var body struct {
			Messages []map[string]any `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		last := body.Messages[len(body.Messages)-1]
		assert.Equal(t, "tool", last["role"])
		assert.Equal(t, "call_1", last["tool_call_id"])
		assert.Contains(t, last["content"], "Cloralex 950ml")

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"El Cloralex 950ml cuesta $25.00"},"finish_reason":"stop"}]}`))
	})

	searcher := &fakeSearcher{products: []models.Product{
		{Key: "CLX950", Name: "Cloralex 950ml", Price: 25, Cost: 18},
	}}
	chat := NewChat(client, searcher)

	answer, err := chat.Ask(context.Background(), "conv-1", "¿cuánto cuesta el cloralex?")
	require.NoError(t, err)
	assert.Equal(t, "El Cloralex 950ml cuesta $25.00", answer)
	assert.Equal(t, "cloralex", searcher.lastQuery)
	assert.Equal(t, 2, calls)
}

func TestChatKeepsHistory(t *testing.T) {
	var sawMessages int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]any `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sawMessages = len(body.Messages)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	})

	chat := NewChat(client, &fakeSearcher{})

	_, err := chat.Ask(context.Background(), "conv-1", "primera")
	require.NoError(t, err)
	// system + user
	assert.Equal(t, 2, sawMessages)

	_, err = chat.Ask(context.Background(), "conv-1", "segunda")
	require.NoError(t, err)
	// system + previous user/assistant + new user
	assert.Equal(t, 4, sawMessages)

	chat.Reset("conv-1")
	_, err = chat.Ask(context.Background(), "conv-1", "tercera")
	require.NoError(t, err)
	assert.Equal(t, 2, sawMessages)
}

func TestChatEmptyQuestion(t *testing.T) {
	chat := NewChat(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}), &fakeSearcher{})

	_, err := chat.Ask(context.Background(), "conv-1", "   ")
	assert.Error(t, err)
}

func TestParseCashCut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		rf, ok := body["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", rf["type"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":
			"{\"sales\":3500,\"general_expenses\":200,\"delivered_cash\":3100}"},"finish_reason":"stop"}]}`))
	})

	in, err := client.ParseCashCut(context.Background(), "vendimos 3500, gasté 200 en hielo, entregué 3100")
	require.NoError(t, err)
	assert.Equal(t, 3500.0, in.Sales)
	assert.Equal(t, 200.0, in.GeneralExpenses)
	assert.Equal(t, 3100.0, in.DeliveredCash)
	assert.Zero(t, in.Recharges)
}

func TestParseCashCutMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"no puedo"},"finish_reason":"stop"}]}`))
	})

	_, err := client.ParseCashCut(context.Background(), "texto cualquiera")
	assert.Error(t, err)
}

func TestSemanticSearchFiltersUnknownKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":
			"{\"keys\":[\"DEST1\",\"INVENTADA\"]}"},"finish_reason":"stop"}]}`))
	})

	keys, err := client.SemanticSearch(context.Background(), "algo para destapar el baño", []models.Product{
		{Key: "DEST1", Name: "Destapacaños Drano"},
		{Key: "CLX950", Name: "Cloralex 950ml"},
	})
	require.NoError(t, err)

	// Keys the model invents are discarded.
	assert.Equal(t, []string{"DEST1"}, keys)
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	keys, err := client.SemanticSearch(context.Background(), "  ", []models.Product{{Key: "A"}})
	require.NoError(t, err)
	assert.Nil(t, keys)
}

func TestGenerateImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"url":"https://img.example/avatar.png"}]}`))
	})

	url, err := client.GenerateImage(context.Background(), "tendero sonriente")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/avatar.png", url)
}
