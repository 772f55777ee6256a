package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefeed/internal/config"
	"platefeed/internal/models"
)

func newTestClient(baseURL string, timeoutSeconds int) *Client {
	return NewClient(&config.Config{
		OracleBaseURL:        baseURL,
		OracleAPIKey:         "test-key",
		OracleModel:          "test-model",
		OracleTimeoutSeconds: timeoutSeconds,
	})
}

func completionBody(t *testing.T, judgement models.Judgement) []byte {
	t.Helper()
	content, err := json.Marshal(judgement)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": string(content)}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestClient_JudgeMeal(t *testing.T) {
	want := models.Judgement{
		FoodName:    "Chicken and chips",
		Calories:    900,
		HealthScore: 3,
		Ingredients: "Chicken, batter, oil, fries",
		Chal3:       true,
		Chal4:       true,
		TotalChals:  2,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, want))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5)
	got, err := client.JudgeMeal(context.Background(), "front", "back")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, []string{"Chicken", "batter", "oil", "fries"}, []string(got.IngredientList()))
}

func TestClient_JudgeMealTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 1)
	_, err := client.JudgeMeal(context.Background(), "front", "back")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ORACLE_ERROR", appErr.Code)
}

func TestClient_JudgeMealServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5)
	_, err := client.JudgeMeal(context.Background(), "front", "back")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ORACLE_ERROR", appErr.Code)
}

func TestClient_JudgeMealMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"not json at all"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5)
	_, err := client.JudgeMeal(context.Background(), "front", "back")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ORACLE_ERROR", appErr.Code)
}

func TestClient_JudgeMealRejectsOutOfRangeJudgement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionBody(t, models.Judgement{
			Ingredients: "rice",
			HealthScore: 42, // outside 0..10
		}))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5)
	_, err := client.JudgeMeal(context.Background(), "front", "back")

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ORACLE_ERROR", appErr.Code)
}
