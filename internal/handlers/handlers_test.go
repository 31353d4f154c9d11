package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_management/internal/config"
	"github.com/Skotchmaster/product_management/internal/credentials"
	"github.com/Skotchmaster/product_management/internal/middleware/auth"
	"github.com/Skotchmaster/product_management/internal/models"
	"github.com/Skotchmaster/product_management/internal/repo"
	"github.com/Skotchmaster/product_management/internal/service/token"
	"github.com/Skotchmaster/product_management/internal/validation"
)

type testEnv struct {
	E     *echo.Echo
	DB    *gorm.DB
	A     *AuthHandler
	P     *ProductHandler
	Creds *credentials.Store
	Tok   *token.Service
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)

	cfg := &config.Config{
		ReadWriteAccount: config.Account{Username: "admin", Password: "admin_password", Role: "Admin"},
		ReadOnlyAccount:  config.Account{Username: "user", Password: "user_password", Role: "User"},
	}
	creds, err := credentials.NewStore(cfg)
	require.NoError(t, err)

	tok := &token.Service{
		Secret:          []byte("test-jwt-secret"),
		Issuer:          "product-management",
		Audience:        "product-management-clients",
		ExpiryInMinutes: 120,
	}

	e := echo.New()
	e.Validator = validation.New()

	return &testEnv{
		E:     e,
		DB:    db,
		A:     &AuthHandler{Credentials: creds, Tokens: tok},
		P:     &ProductHandler{Repo: &repo.GormRepo{DB: db, RestrictedIDs: []int{101, 102, 103}}},
		Creds: creds,
		Tok:   tok,
	}
}

func (env *testEnv) doJSONRequest(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func setPrincipal(c echo.Context, username, role string) {
	c.Set("principal", &auth.Principal{UserID: 1, Username: username, Role: role})
}

func setPrincipalWithExpiry(c echo.Context, username, role string, exp time.Time) {
	c.Set("principal", &auth.Principal{UserID: 1, Username: username, Role: role, ExpiresAt: exp})
}

func decode(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
