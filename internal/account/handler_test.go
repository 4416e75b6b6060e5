package account_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"doctor-manager-backend/internal/account"
	"doctor-manager-backend/internal/auth"
	"doctor-manager-backend/internal/config"
	"doctor-manager-backend/internal/database"
	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupAccountApp(t *testing.T) (*fiber.App, *storage.Store, *models.User, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	store := storage.New(db)

	user := &models.User{Email: "viewer@example.com", PasswordHash: "x", Name: "viewer", Role: models.RoleViewer, Theme: models.ThemeLight, Language: models.LanguageArabic}
	require.NoError(t, store.CreateUser(user))

	cfg := &config.Config{JWTSecret: testSecret}
	token, err := auth.GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(auth.JWTMiddleware(cfg))
	app.Patch("/api/account", account.UpdateAccountHandler(store))

	return app, store, user, token
}

func patchAccount(t *testing.T, app *fiber.App, token string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/account", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUpdateAccount(t *testing.T) {
	app, store, user, token := setupAccountApp(t)

	resp := patchAccount(t, app, token, map[string]any{
		"userId":   user.ID,
		"name":     "Dr. Viewer",
		"theme":    "dark",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out auth.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Dr. Viewer", out.Name)
	assert.Equal(t, models.ThemeDark, out.Theme)
	assert.Equal(t, models.LanguageEnglish, out.Language)

	stored, err := store.UserByEmail("viewer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Viewer", stored.Name)
}

func TestUpdateAccountPasswordIsHashed(t *testing.T) {
	app, store, user, token := setupAccountApp(t)

	resp := patchAccount(t, app, token, map[string]any{
		"userId":   user.ID,
		"password": "new-secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := store.UserByEmail("viewer@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "new-secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-secret")))
}

func TestUpdateAccountValidation(t *testing.T) {
	app, _, user, token := setupAccountApp(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing user id", map[string]any{"name": "x"}},
		{"bad email", map[string]any{"userId": user.ID, "email": "nope"}},
		{"bad theme", map[string]any{"userId": user.ID, "theme": "solarized"}},
		{"bad language", map[string]any{"userId": user.ID, "language": "fr"}},
		{"empty name", map[string]any{"userId": user.ID, "name": "  "}},
		{"empty password", map[string]any{"userId": user.ID, "password": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := patchAccount(t, app, token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateAccountOtherUserForbidden(t *testing.T) {
	app, _, user, token := setupAccountApp(t)

	resp := patchAccount(t, app, token, map[string]any{
		"userId": user.ID + 1,
		"name":   "intruder",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateAccountRequiresAuth(t *testing.T) {
	app, _, user, _ := setupAccountApp(t)

	resp := patchAccount(t, app, "", map[string]any{"userId": user.ID, "name": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
