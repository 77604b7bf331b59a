package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/invtrack/invtrack/internal/app"
)

// Context keys for handler access to application resources.
const (
	ContextKeyDB       = "invtrack_db"
	ContextKeyEngine   = "invtrack_engine"
	ContextKeySettings = "invtrack_settings"

	SessionName        = "invtrack_session"
	SessionKeyLoggedIn = "logged_in"
	SessionKeyUsername = "username"
)

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	appCtx *app.Application
}

var server *WebServer

// Init builds the package-level web server around the application.
func Init(application *app.Application) *WebServer {
	server = NewWebServer(application)
	return server
}

func NewWebServer(application *app.Application) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()
	e.Use(middleware.Recover())
	secret := application.Config().Web.Secret
	if secret == "" {
		// sessions won't survive a restart without a configured secret
		secret = random.String(32)
	}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))
	e.Use(zapLoggerMiddleware())

	// inject application resources for handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyDB, application.DB())
			c.Set(ContextKeyEngine, application.Engine())
			c.Set(ContextKeySettings, app.SettingsProvider(application))
			return next(c)
		}
	})

	e.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	ws := &WebServer{root: e, appCtx: application}
	ws.api = e.Group("/api", requireSession)
	return ws
}

// requireSession rejects unauthenticated API calls; the login endpoint
// itself is exempt.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/api/login" {
			return next(c)
		}
		sess, err := session.Get(SessionName, c)
		if err == nil {
			if loggedIn, ok := sess.Values[SessionKeyLoggedIn].(bool); ok && loggedIn {
				return next(c)
			}
		}
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"code":    "UNAUTHORIZED",
			"message": "Login required",
		})
	}
}

func zapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			req := c.Request()
			res := c.Response()
			zap.L().Debug("http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()))
			return err
		}
	}
}

// Listen starts serving on the configured address.
func Listen() error {
	cfg := server.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return server.root.Start(addr)
}

// Echo exposes the underlying echo instance (used in tests).
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// Shutdown stops the server gracefully.
func Shutdown() error {
	if server == nil {
		return nil
	}
	return server.root.Close()
}

// ApiGET registers a GET handler under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers a POST handler under /api.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers a PUT handler under /api.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers a DELETE handler under /api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
