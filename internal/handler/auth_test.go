package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/config"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "handler-test-secret",
			Algorithm:     "HS256",
			ExpireMinutes: 30,
		},
		Security: config.SecurityConfig{BcryptCost: 4}, // low cost keeps tests fast
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func authEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	h := NewAuthHandler(db, testConfig())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/token", h.Login)
	return r, db
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, email, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	return postJSON(r, "/auth/register",
		`{"email":"`+email+`","username":"`+username+`","password":"`+password+`"}`)
}

// ============ registration ============

func TestRegister(t *testing.T) {
	r, _ := authEngine(t)

	w := register(t, r, "alice@example.com", "alice", "Secret123")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["username"] != "alice" {
		t.Errorf("unexpected body: %v", resp)
	}
	if _, ok := resp["id"]; !ok {
		t.Error("response should carry the user id")
	}
	if _, ok := resp["created_at"]; !ok {
		t.Error("response should carry created_at")
	}
	// the hash must never leak
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "hash") {
		t.Errorf("response leaks password material: %s", w.Body)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := authEngine(t)

	register(t, r, "dup@example.com", "first", "Secret123")
	w := register(t, r, "dup@example.com", "second", "Secret123")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email already registered") {
		t.Errorf("unexpected body: %s", w.Body)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r, _ := authEngine(t)

	register(t, r, "one@example.com", "taken", "Secret123")
	w := register(t, r, "two@example.com", "taken", "Secret123")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already taken") {
		t.Errorf("unexpected body: %s", w.Body)
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	r, _ := authEngine(t)

	cases := []string{
		`{}`,
		`{"email":"not-an-email","username":"u","password":"p"}`,
		`{"email":"a@b.c","username":"u"}`,
		`not json`,
	}
	for _, body := range cases {
		if w := postJSON(r, "/auth/register", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

// ============ login ============

func TestLogin(t *testing.T) {
	r, _ := authEngine(t)
	register(t, r, "bob@example.com", "bob", "Secret123")

	w := postForm(r, "/auth/token", url.Values{
		"username": {"bob"},
		"password": {"Secret123"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("access_token should not be empty")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
}

func TestLogin_FailureModesAreIndistinguishable(t *testing.T) {
	r, _ := authEngine(t)
	register(t, r, "carol@example.com", "carol", "Secret123")

	wrongPassword := postForm(r, "/auth/token", url.Values{
		"username": {"carol"},
		"password": {"WrongPass1"},
	})
	unknownUser := postForm(r, "/auth/token", url.Values{
		"username": {"nobody"},
		"password": {"Secret123"},
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("login failures must be identical: %s vs %s", wrongPassword.Body, unknownUser.Body)
	}
}
