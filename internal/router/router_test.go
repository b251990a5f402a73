package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/config"
	"github.com/dkzinn98/gestor-financeiro/internal/database"
	"github.com/dkzinn98/gestor-financeiro/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "gestor-financeiro-test",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{BcryptCost: 4}, // keep tests fast
		App:      config.AppSubConfig{RecentLimit: 5, PageSize: 20},
	}
	return router.SetupRouter(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if len(w.Body.Bytes()) > 0 && w.Header().Get("Content-Type") != "text/csv; charset=utf-8" {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func register(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "Test User",
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	return data["access_token"].(string)
}

func categoryID(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodGet, "/api/categorias", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cats := resp["data"].(map[string]any)["categories"].([]any)
	for _, c := range cats {
		cat := c.(map[string]any)
		if cat["name"] == name {
			return uint(cat["id"].(float64))
		}
	}
	t.Fatalf("category %s not seeded", name)
	return 0
}

func TestFullTransactionFlow(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "alice@example.com")

	incomeCat := categoryID(t, r, token, "INCOME")
	expenseCat := categoryID(t, r, token, "EXPENSE")

	// legacy Portuguese vocabulary in, canonical English vocabulary out
	w, resp := doJSON(t, r, http.MethodPost, "/api/transacoes", token, map[string]any{
		"descricao":    "Aluguel",
		"valor":        "400.00",
		"tipo":         "DESPESA",
		"categoria_id": expenseCat,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tx := resp["data"].(map[string]any)["transaction"].(map[string]any)
	assert.Equal(t, "Aluguel", tx["description"])
	assert.Equal(t, 400.0, tx["amount"])
	assert.Equal(t, "expense", tx["kind"])
	assert.Equal(t, time.Now().Format("2006-01-02"), tx["transaction_date"])
	rentID := uint(tx["id"].(float64))

	w, _ = doJSON(t, r, http.MethodPost, "/api/transacoes", token, map[string]any{
		"description": "March pay",
		"amount":      1000.00,
		"type":        "income",
		"category_id": incomeCat,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp = doJSON(t, r, http.MethodGet, "/api/transacoes/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := resp["data"].(map[string]any)
	assert.Equal(t, 1000.0, dash["totalIncome"])
	assert.Equal(t, 400.0, dash["totalExpense"])
	assert.Equal(t, 600.0, dash["balance"])

	w, resp = doJSON(t, r, http.MethodGet, "/api/transacoes/recent?limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := resp["data"].(map[string]any)["transactions"].([]any)
	require.Len(t, recent, 1)
	assert.Equal(t, "March pay", recent[0].(map[string]any)["description"])

	// partial update touches only the description
	w, resp = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/transacoes/%d", rentID), token,
		map[string]any{"descricao": "Aluguel março"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tx = resp["data"].(map[string]any)["transaction"].(map[string]any)
	assert.Equal(t, "Aluguel março", tx["description"])
	assert.Equal(t, 400.0, tx["amount"])
	assert.Equal(t, "expense", tx["kind"])

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/transacoes/%d", rentID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/transacoes/%d", rentID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/transacoes/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = resp["data"].(map[string]any)
	assert.Equal(t, 1000.0, dash["totalIncome"])
	assert.Equal(t, 0.0, dash["totalExpense"])
}

func TestValidationErrorsReturnedTogether(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "bob@example.com")

	w, resp := doJSON(t, r, http.MethodPost, "/api/transacoes", token, map[string]any{
		"amount": "not-a-number",
		"type":   "other",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	violations := resp["errors"].(map[string]any)
	for _, field := range []string{"description", "amount", "kind", "categoryId"} {
		assert.Contains(t, violations, field)
	}
}

func TestMalformedCategoryID(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "carol@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/transacoes", token, map[string]any{
		"descricao":    "Coffee",
		"valor":        "5.00",
		"tipo":         "despesa",
		"categoria_id": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/transacoes", "/api/categorias", "/api/me"} {
		w, _ := doJSON(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestOwnershipIsolationOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	aliceToken := register(t, r, "alice@example.com")
	bobToken := register(t, r, "bob@example.com")

	expenseCat := categoryID(t, r, aliceToken, "EXPENSE")
	w, resp := doJSON(t, r, http.MethodPost, "/api/transacoes", aliceToken, map[string]any{
		"description": "Private",
		"amount":      "10.00",
		"type":        "expense",
		"category_id": expenseCat,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(resp["data"].(map[string]any)["transaction"].(map[string]any)["id"].(float64))

	// Bob sees NotFound, never a forbidden signal
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/transacoes/%d", id), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "dave@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginIssuesFreshToken(t *testing.T) {
	r := newTestRouter(t)
	first := register(t, r, "erin@example.com")

	w, resp := doJSON(t, r, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "erin@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := resp["data"].(map[string]any)["access_token"].(string)

	// login keeps a single active session: the first token is now dead
	w, _ = doJSON(t, r, http.MethodGet, "/api/me", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/me", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "erin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
