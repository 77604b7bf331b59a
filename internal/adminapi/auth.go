package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/webserver"
	"github.com/invtrack/invtrack/pkg/common"
)

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
	webserver.ApiPOST("/logout", logout)
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_CREDENTIALS", "Username and password are required", nil)
	}

	var operator domain.SysOpr
	err := GetDB(c).Where("username = ? AND status = ?", payload.Username, common.ENABLED).
		First(&operator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	hashed := common.HashPasswordWithSalt(payload.Password, common.GetSecretSalt())
	if hashed != operator.Password {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	sess, err := session.Get(webserver.SessionName, c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to open session", err.Error())
	}
	sess.Values[webserver.SessionKeyLoggedIn] = true
	sess.Values[webserver.SessionKeyUsername] = operator.Username
	sess.Options.HttpOnly = true
	sess.Options.MaxAge = 8 * 3600
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", operator.ID).
		Update("last_login", time.Now())
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   operator.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})

	return ok(c, map[string]interface{}{
		"username": operator.Username,
		"level":    operator.Level,
	})
}

func logout(c echo.Context) error {
	sess, err := session.Get(webserver.SessionName, c)
	if err == nil {
		sess.Values = map[interface{}]interface{}{}
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return ok(c, map[string]interface{}{"logged_out": true})
}

// sessionUsername returns the operator name for audit fields; empty when
// the request carries no session.
func sessionUsername(c echo.Context) string {
	sess, err := session.Get(webserver.SessionName, c)
	if err != nil {
		return ""
	}
	if name, ok := sess.Values[webserver.SessionKeyUsername].(string); ok {
		return name
	}
	return ""
}
