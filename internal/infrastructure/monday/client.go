// Package monday implementa el adaptador hacia la API GraphQL v2 de
// Monday.com, donde los operadores capturan sus gastos.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/facturamx/gastos-api/internal/application/sync"
	"github.com/facturamx/gastos-api/internal/domain"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/pkg/config"
	"github.com/facturamx/gastos-api/pkg/logger"
)

const (
	defaultBaseURL = "https://api.monday.com/v2"
	// Monday corta cursores viejos; 100 items por página mantiene las
	// corridas cortas sin acercarse al límite de complejidad de la API.
	pageSize = 100
)

var _ sync.BoardSource = (*Client)(nil)

// Client cliente GraphQL de Monday.com con rate limiting propio para no
// agotar el presupuesto de complejidad de la cuenta.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient construye el cliente. cfg.APIBaseURL vacío usa la API real.
func NewClient(cfg config.MondayConfig, log *logger.Logger) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		token:      cfg.APIToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        log,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// ListColumns trae id, título y tipo de cada columna del tablero.
func (c *Client) ListColumns(ctx context.Context, boardID string) ([]entity.BoardColumn, error) {
	const query = `
		query ($boardID: [ID!]) {
			boards (ids: $boardID) {
				columns { id title type }
			}
		}`

	var out struct {
		Boards []struct {
			Columns []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Type  string `json:"type"`
			} `json:"columns"`
		} `json:"boards"`
	}
	if err := c.do(ctx, query, map[string]any{"boardID": []string{boardID}}, &out); err != nil {
		return nil, err
	}
	if len(out.Boards) == 0 {
		return nil, fmt.Errorf("%w: el tablero %s no existe o el token no lo ve", domain.ErrUpstreamFailure, boardID)
	}

	columns := make([]entity.BoardColumn, 0, len(out.Boards[0].Columns))
	for _, col := range out.Boards[0].Columns {
		columns = append(columns, entity.BoardColumn{ID: col.ID, Title: col.Title, Type: col.Type})
	}
	return columns, nil
}

// ListItems trae una página de items con sus valores de columna en texto
// plano. cursor vacío arranca desde la primera página.
func (c *Client) ListItems(ctx context.Context, boardID, cursor string) (*entity.BoardPage, error) {
	const firstPage = `
		query ($boardID: [ID!], $limit: Int!) {
			boards (ids: $boardID) {
				items_page (limit: $limit) {
					cursor
					items {
						id name created_at updated_at
						column_values { id text }
					}
				}
			}
		}`
	const nextPage = `
		query ($cursor: String!, $limit: Int!) {
			next_items_page (cursor: $cursor, limit: $limit) {
				cursor
				items {
					id name created_at updated_at
					column_values { id text }
				}
			}
		}`

	type rawItem struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		CreatedAt    string `json:"created_at"`
		UpdatedAt    string `json:"updated_at"`
		ColumnValues []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"column_values"`
	}
	type rawPage struct {
		Cursor string    `json:"cursor"`
		Items  []rawItem `json:"items"`
	}

	var page rawPage
	if cursor == "" {
		var out struct {
			Boards []struct {
				ItemsPage rawPage `json:"items_page"`
			} `json:"boards"`
		}
		vars := map[string]any{"boardID": []string{boardID}, "limit": pageSize}
		if err := c.do(ctx, firstPage, vars, &out); err != nil {
			return nil, err
		}
		if len(out.Boards) == 0 {
			return nil, fmt.Errorf("%w: el tablero %s no existe o el token no lo ve", domain.ErrUpstreamFailure, boardID)
		}
		page = out.Boards[0].ItemsPage
	} else {
		var out struct {
			NextItemsPage rawPage `json:"next_items_page"`
		}
		vars := map[string]any{"cursor": cursor, "limit": pageSize}
		if err := c.do(ctx, nextPage, vars, &out); err != nil {
			return nil, err
		}
		page = out.NextItemsPage
	}

	items := make([]entity.BoardItem, 0, len(page.Items))
	for _, raw := range page.Items {
		item := entity.BoardItem{
			ID:           raw.ID,
			Name:         raw.Name,
			CreatedAt:    parseMondayTime(raw.CreatedAt),
			UpdatedAt:    parseMondayTime(raw.UpdatedAt),
			ColumnValues: make(map[string]string, len(raw.ColumnValues)),
		}
		for _, cv := range raw.ColumnValues {
			item.ColumnValues[cv.ID] = cv.Text
		}
		items = append(items, item)
	}
	return &entity.BoardPage{Items: items, NextCursor: page.Cursor}, nil
}

// do ejecuta una query GraphQL respetando el rate limit. Cualquier fallo de
// red, HTTP o de GraphQL se reporta como fallo del upstream.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", "2024-10")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: leyendo respuesta: %v", domain.ErrUpstreamFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("monday respondió con error HTTP")
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, truncate(body, 200))
	}

	var gql gqlResponse
	if err := json.Unmarshal(body, &gql); err != nil {
		return fmt.Errorf("%w: respuesta ilegible: %v", domain.ErrUpstreamFailure, err)
	}
	if len(gql.Errors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, gql.Errors[0].Message)
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("%w: datos ilegibles: %v", domain.ErrUpstreamFailure, err)
	}
	return nil
}

// parseMondayTime tolera los dos formatos de fecha que devuelve la API.
func parseMondayTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
