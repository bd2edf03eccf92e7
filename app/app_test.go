package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"user-management-api/config"
	"user-management-api/logger"
	"user-management-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{SecretKey: "app-test-secret", AccessTokenTTL: time.Minute}
	cfg.Security = config.SecurityConfig{BcryptCost: 4, MaxLoginAttempts: 3}
	return cfg
}

func TestNew_FirstRegistrationBecomesAdmin(t *testing.T) {
	logger.Init("error", "text")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	application := New(testConfig(), db, nil)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`FROM users WHERE nickname = \$1`).WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("LOCK TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"nickname":"root","email":"root@example.com","password":"StrongPass1!"}`))
	rr := httptest.NewRecorder()
	application.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created model.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, model.RoleAdmin, created.Role)
	assert.NotEmpty(t, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_ProtectedRoutesNeedToken(t *testing.T) {
	logger.Init("error", "text")

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	application := New(testConfig(), db, nil)

	rr := httptest.NewRecorder()
	application.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}
