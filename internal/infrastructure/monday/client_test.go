package monday_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/infrastructure/monday"
	"github.com/facturamx/gastos-api/pkg/config"
	"github.com/facturamx/gastos-api/pkg/logger"
)

func newClient(serverURL string) *monday.Client {
	return monday.NewClient(config.MondayConfig{
		APIToken:   "token-123",
		APIBaseURL: serverURL,
		RateLimit:  1000, // sin throttling en tests
	}, logger.New(logger.Config{Env: "production", Level: "error"}))
}

func TestListColumns(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "columns")

		_, _ = w.Write([]byte(`{"data":{"boards":[{"columns":[
			{"id":"numbers_1","title":"Monto","type":"numbers"},
			{"id":"date_1","title":"Fecha","type":"date"}
		]}]}}`))
	}))
	defer server.Close()

	columns, err := newClient(server.URL).ListColumns(context.Background(), "board-9")

	require.NoError(t, err)
	assert.Equal(t, "token-123", gotAuth)
	require.Len(t, columns, 2)
	assert.Equal(t, "numbers_1", columns[0].ID)
	assert.Equal(t, "Monto", columns[0].Title)
	assert.Equal(t, "numbers", columns[0].Type)
}

func TestListColumns_TableroInexistente(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"boards":[]}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).ListColumns(context.Background(), "board-x")

	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}

func TestListItems_PrimeraPaginaYSiguiente(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if _, hayCursor := req.Variables["cursor"]; hayCursor {
			assert.Equal(t, "cursor-abc", req.Variables["cursor"])
			_, _ = w.Write([]byte(`{"data":{"next_items_page":{"cursor":"","items":[
				{"id":"item-2","name":"Hotel CDMX","created_at":"2024-03-02 08:00:00",
				 "updated_at":"2024-03-02 09:00:00",
				 "column_values":[{"id":"numbers_1","text":"2300"}]}
			]}}}`))
			return
		}

		_, _ = w.Write([]byte(`{"data":{"boards":[{"items_page":{"cursor":"cursor-abc","items":[
			{"id":"item-1","name":"Comida con cliente","created_at":"2024-03-01T12:00:00Z",
			 "updated_at":"2024-03-01T13:00:00Z",
			 "column_values":[{"id":"numbers_1","text":"1160"},{"id":"date_1","text":"2024-03-01"}]}
		]}}]}}`))
	}))
	defer server.Close()

	client := newClient(server.URL)

	primera, err := client.ListItems(context.Background(), "board-9", "")
	require.NoError(t, err)
	require.Len(t, primera.Items, 1)
	assert.Equal(t, "item-1", primera.Items[0].ID)
	assert.Equal(t, "1160", primera.Items[0].ColumnValues["numbers_1"])
	assert.Equal(t, "cursor-abc", primera.NextCursor)
	assert.False(t, primera.Items[0].CreatedAt.IsZero(), "parsea RFC3339")

	segunda, err := client.ListItems(context.Background(), "board-9", primera.NextCursor)
	require.NoError(t, err)
	require.Len(t, segunda.Items, 1)
	assert.Equal(t, "item-2", segunda.Items[0].ID)
	assert.Empty(t, segunda.NextCursor, "última página")
	assert.False(t, segunda.Items[0].CreatedAt.IsZero(), "parsea el formato con espacio")
}

func TestDo_ErrorGraphQLEsFalloDelUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Complexity budget exhausted"}]}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).ListItems(context.Background(), "board-9", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "Complexity budget exhausted")
}

func TestDo_HTTP500EsFalloDelUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newClient(server.URL).ListColumns(context.Background(), "board-9")

	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}
