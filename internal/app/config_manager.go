package app

import (
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	perrors "github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/pkg/common"
)

// ConfigManager caches sys_config rows and provides typed access to
// runtime settings. Values are grouped by category (the Type column).
type ConfigManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

// NewConfigManager creates a settings manager over the database handle.
func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db, cache: make(map[string]string)}
}

func settingKey(category, name string) string {
	return category + "." + name
}

// Reload refreshes the in-memory settings cache from the database.
func (m *ConfigManager) Reload() error {
	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		return perrors.Wrap(err, "load sys_config")
	}
	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[settingKey(row.Type, row.Name)] = row.Value
	}
	m.mu.Lock()
	m.cache = fresh
	m.mu.Unlock()
	return nil
}

func (m *ConfigManager) getValue(category, name string) (string, bool) {
	m.mu.RLock()
	v, ok := m.cache[settingKey(category, name)]
	m.mu.RUnlock()
	return v, ok
}

// GetString returns a string setting, empty when absent.
func (m *ConfigManager) GetString(category, name string) string {
	v, _ := m.getValue(category, name)
	return v
}

// GetInt64 returns an int64 setting, zero when absent or malformed.
func (m *ConfigManager) GetInt64(category, name string) int64 {
	v, _ := m.getValue(category, name)
	return cast.ToInt64(v)
}

// GetBool returns a boolean setting, false when absent or malformed.
func (m *ConfigManager) GetBool(category, name string) bool {
	v, _ := m.getValue(category, name)
	return cast.ToBool(v)
}

// SetValue upserts one setting and refreshes the cache entry.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&row).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		err = m.db.Create(&domain.SysConfig{
			ID:        common.UUIDint64(),
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	case err == nil:
		err = m.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return perrors.Wrap(err, "save setting")
	}
	m.mu.Lock()
	m.cache[settingKey(category, name)] = value
	m.mu.Unlock()
	return nil
}

// DecodeSettings decodes all settings of one category into a struct via
// mapstructure tags, with weak typing so "true"/"25" strings convert.
func (m *ConfigManager) DecodeSettings(category string, out interface{}) error {
	values := map[string]interface{}{}
	prefix := category + "."
	m.mu.RLock()
	for key, value := range m.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			values[key[len(prefix):]] = value
		}
	}
	m.mu.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}
