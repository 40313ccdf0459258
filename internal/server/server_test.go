package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"katalog/internal/config"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ProductEvent
}

func (p *recordingPublisher) PublishProductEvent(event models.ProductEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Event)
	}
	return types
}

func send(t *testing.T, deps server.Dependencies, method, target, body string) (*http.Response, string) {
	t.Helper()
	return sendTo(t, server.NewApp(deps), method, target, body)
}

func sendTo(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestNewApp_RequestIDAndUnknownRoute(t *testing.T) {
	deps := server.Dependencies{
		Repository: repositories.NewMemoryProductRepository(),
		Logger:     zerolog.Nop(),
	}

	resp, body := send(t, deps, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Contains(t, body, `"events":"disabled"`)

	resp, body = send(t, deps, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &errResp))
	assert.NotEmpty(t, errResp["message"])
}

func TestNewApp_PublishesLifecycleEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	app := server.NewApp(server.Dependencies{
		Repository: repositories.NewMemoryProductRepository(),
		Publisher:  publisher,
		Logger:     zerolog.Nop(),
	})

	resp, body := sendTo(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"events":"enabled"`)

	resp, body = sendTo(t, app, http.MethodPost, "/products", `{"name":"Pen","value":1.50}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var created models.Product
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	resp, _ = sendTo(t, app, http.MethodPut, "/products/"+created.ID.String(), `{"name":"Pen v2","value":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = sendTo(t, app, http.MethodDelete, "/products/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{
		models.EventProductCreated,
		models.EventProductUpdated,
		models.EventProductDeleted,
	}, publisher.types())
}

func TestNewApp_LinkBaseURL(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	product := &models.Product{Name: "Pen", Value: models.NewAmount(decimal.RequireFromString("1.50"))}
	require.NoError(t, repo.Create(product))

	deps := server.Dependencies{
		Repository:  repo,
		Logger:      zerolog.Nop(),
		LinkBaseURL: "https://shop.example.org",
	}

	resp, body := send(t, deps, http.MethodGet, "/products/"+product.ID.String(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"Products List":{"href":"https://shop.example.org/products"}`)
}

func TestOpenRepository(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, closeFn, err := server.OpenRepository(config.Config{DBDriver: config.DriverMemory}, zerolog.Nop())
		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.NoError(t, repo.Ping())
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Config{
			DBDriver:      config.DriverSQLite,
			DatabaseDSN:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			DBAutoMigrate: true,
		}
		repo, closeFn, err := server.OpenRepository(cfg, zerolog.Nop())
		require.NoError(t, err)
		defer func() { assert.NoError(t, closeFn()) }()

		assert.NoError(t, repo.Ping())

		product := &models.Product{Name: "Pen", Value: models.NewAmount(decimal.RequireFromString("1.50"))}
		require.NoError(t, repo.Create(product))

		app := server.NewApp(server.Dependencies{Repository: repo, Logger: zerolog.Nop()})
		resp, body := sendTo(t, app, http.MethodGet, "/products", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, product.ID.String())
		assert.Contains(t, body, `"href":"http://example.com/products/`+product.ID.String()+`"`)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, _, err := server.OpenRepository(config.Config{DBDriver: "oracle"}, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}
