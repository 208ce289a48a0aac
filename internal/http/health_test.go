package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/postbrowser/internal/database"
)

type fixedCounter int

func (f fixedCounter) Len() int { return int(f) }

type queueState bool

func (q queueState) Running() bool { return bool(q) }

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("database is locked") }

func openHealthDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "favourites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthController_Status(t *testing.T) {
	tests := []struct {
		name       string
		db         func(t *testing.T) Pinger
		sessions   SessionCounter
		queue      QueueMonitor
		wantCode   int
		wantStatus string
		wantChecks map[string]string
		wantLive   int
	}{
		{
			name:       "favourites database and workers up",
			db:         func(t *testing.T) Pinger { return openHealthDB(t) },
			sessions:   fixedCounter(4),
			queue:      queueState(true),
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantChecks: map[string]string{"database": "ok", "history_queue": "running"},
			wantLive:   4,
		},
		{
			name:       "history written inline",
			db:         func(t *testing.T) Pinger { return openHealthDB(t) },
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantChecks: map[string]string{"database": "ok", "history_queue": "inline"},
		},
		{
			name:       "history workers stopped",
			db:         func(t *testing.T) Pinger { return openHealthDB(t) },
			queue:      queueState(false),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"database": "ok", "history_queue": "stopped"},
		},
		{
			name:       "favourites database unreachable",
			db:         func(*testing.T) Pinger { return failingPinger{} },
			sessions:   fixedCounter(1),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"database": "error: database is locked", "history_queue": "inline"},
			wantLive:   1,
		},
		{
			name:       "no database configured",
			db:         func(*testing.T) Pinger { return nil },
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantChecks: map[string]string{"database": "not configured", "history_queue": "inline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := getHealth(t, NewHealthController(tt.db(t), tt.sessions, tt.queue, "0.3.0"))

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantChecks, resp.Checks)
			assert.Equal(t, tt.wantLive, resp.Sessions)
			assert.Equal(t, "0.3.0", resp.Version)
			assert.Contains(t, resp.Time, "T")
		})
	}
}

func TestHealthController_ClosedDatabase(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "favourites.db"))
	require.NoError(t, err)
	db.Close()

	code, resp := getHealth(t, NewHealthController(db, nil, nil, ""))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks["database"], "error")
	assert.Empty(t, resp.Version)
}
