package adminapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/stock"
	"github.com/invtrack/invtrack/internal/webserver"
)

// fixedSettings satisfies app.SettingsProvider with static values.
type fixedSettings map[string]string

func (s fixedSettings) GetSettingsStringValue(category, key string) string {
	return s[category+"."+key]
}

func (s fixedSettings) GetSettingsInt64Value(category, key string) int64 {
	var v int64
	fmt.Sscanf(s[category+"."+key], "%d", &v)
	return v
}

func (s fixedSettings) GetSettingsBoolValue(category, key string) bool {
	return s[category+"."+key] == "true"
}

type apiTestEnv struct {
	db     *gorm.DB
	engine *stock.Engine
	echo   *echo.Echo
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &apiTestEnv{
		db:     db,
		engine: stock.NewEngine(db, nil),
		echo:   echo.New(),
	}
}

// invoke runs a handler directly with the application resources a real
// request would carry from the injection middleware.
func (env *apiTestEnv) invoke(t *testing.T, handler echo.HandlerFunc, method, path string, body interface{}, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(webserver.ContextKeyDB, env.db)
	c.Set(webserver.ContextKeyEngine, env.engine)
	c.Set(webserver.ContextKeySettings, fixedSettings{"stock.sale_max_retries": "3"})
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, handler(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedActiveProduct(t *testing.T, db *gorm.DB, id int64, name string, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&domain.InvProduct{
		ID: id, Name: name, Sku: fmt.Sprintf("SKU-%d", id),
		UnitPrice: 10, CurrentStock: quantity,
		CriticalThreshold: 2, ReorderThreshold: 5,
		IsActive: true,
	}).Error)
}
