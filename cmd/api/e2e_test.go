package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/events"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type createResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type e2eClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *e2eClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_HabitLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	cfg := &config.Config{
		JWTSecret:      "e2e-secret",
		JWTIssuer:      "kanso-e2e",
		JWTTTL:         time.Hour,
		StreakLocation: time.UTC,
	}

	repos := repositories{
		habits:   repository.NewInMemoryHabitRepository(),
		history:  repository.NewInMemoryHistoryRepository(),
		journals: repository.NewInMemoryJournalRepository(),
		users:    repository.NewInMemoryUserRepository(),
	}
	publisher := events.NewFakePublisher(events.DefaultTopicPrefix)

	a := newApp(cfg, repos, backends{
		publisher: publisher,
		clock:     func() time.Time { return now },
	}, time.Now())

	ctx := t.Context()
	a.worker.Start(ctx)

	client := &e2eClient{t: t, router: a.router}
	var habitID string

	t.Run("1. Register and login", func(t *testing.T) {
		w := client.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"email":    "e2e@kanso.app",
			"password": "Password123!",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = client.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "e2e@kanso.app",
			"password": "Password123!",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		client.token = resp.Token
	})

	t.Run("2. Create Habit", func(t *testing.T) {
		w := client.do(http.MethodPost, "/api/v1/habits", map[string]string{"name": "Morning Run"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp createResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		habitID = resp.ID
	})

	t.Run("3. Complete three days in a row", func(t *testing.T) {
		require.NotEmpty(t, habitID, "Create step failed")

		for _, d := range []string{"2024-03-08", "2024-03-09"} {
			w := client.do(http.MethodPost, "/api/v1/habits/"+habitID+"/complete", map[string]string{"date": d})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
		w := client.do(http.MethodPost, "/api/v1/habits/"+habitID+"/complete", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"date":"2024-03-10"`)
	})

	t.Run("4. Streaks on demand", func(t *testing.T) {
		w := client.do(http.MethodGet, "/api/v1/habits/"+habitID+"/streaks", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"current_streak":3`)
		assert.Contains(t, w.Body.String(), `"longest_streak":3`)
	})

	t.Run("5. Worker persists streaks and publishes", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			h, err := repos.habits.GetByID(ctx, habitID)
			return err == nil && h.CurrentStreak == 3 && h.LongestStreak == 3
		}, 2*time.Second, 10*time.Millisecond)

		assert.Eventually(t, func() bool {
			for _, e := range publisher.Snapshot() {
				if e.HabitID == habitID && e.CurrentStreak == 3 {
					return true
				}
			}
			return false
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("6. Delete Habit", func(t *testing.T) {
		w := client.do(http.MethodDelete, "/api/v1/habits/"+habitID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = client.do(http.MethodGet, "/api/v1/habits", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), habitID)

		_, err := repos.habits.GetByID(ctx, habitID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("7. Auth Error", func(t *testing.T) {
		anon := &e2eClient{t: t, router: a.router}
		w := anon.do(http.MethodGet, "/api/v1/habits", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
