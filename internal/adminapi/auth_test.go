package adminapi

import (
	"net/http"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/pkg/common"
)

func seedOperator(t *testing.T, env *apiTestEnv, username, password, status string) {
	t.Helper()
	require.NoError(t, env.db.Create(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: username,
		Password: common.HashPasswordWithSalt(password, common.GetSecretSalt()),
		Level:    "super",
		Status:   status,
	}).Error)
}

func TestLogin(t *testing.T) {
	env := newAPITestEnv(t)
	seedOperator(t, env, "admin", "invtrack", common.ENABLED)

	handler := session.Middleware(sessions.NewCookieStore([]byte("test-secret")))(login)

	rec := env.invoke(t, handler, http.MethodPost, "/api/login", map[string]interface{}{
		"username": "admin", "password": "invtrack",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["username"])
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))

	// an audit row is written per login
	var logs int64
	require.NoError(t, env.db.Model(&domain.SysOprLog{}).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestLoginRejections(t *testing.T) {
	env := newAPITestEnv(t)
	seedOperator(t, env, "admin", "invtrack", common.ENABLED)
	seedOperator(t, env, "retired", "invtrack", common.DISABLED)

	handler := session.Middleware(sessions.NewCookieStore([]byte("test-secret")))(login)

	rec := env.invoke(t, handler, http.MethodPost, "/api/login", map[string]interface{}{
		"username": "admin", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.invoke(t, handler, http.MethodPost, "/api/login", map[string]interface{}{
		"username": "retired", "password": "invtrack",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.invoke(t, handler, http.MethodPost, "/api/login", map[string]interface{}{
		"username": "", "password": "",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
