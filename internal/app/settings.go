package app

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/kiosklab/vendtix/internal/domain"
)

const settingsCacheTTL = 30 * time.Second

func splitConfigKey(key string) (category, name string, ok bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived in-process cache. Values are stored as strings and cast on
// access.
type ConfigManager struct {
	app *Application

	mu        sync.RWMutex
	cache     map[string]string
	refreshed time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, cache: make(map[string]string)}
}

func (m *ConfigManager) getValue(category, name string) string {
	key := category + "." + name

	m.mu.RLock()
	fresh := time.Since(m.refreshed) < settingsCacheTTL
	val, hit := m.cache[key]
	m.mu.RUnlock()
	if fresh && hit {
		return val
	}

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return val
	}

	m.mu.Lock()
	m.cache = make(map[string]string, len(rows))
	for _, row := range rows {
		m.cache[row.Type+"."+row.Name] = row.Value
	}
	m.refreshed = time.Now()
	val = m.cache[key]
	m.mu.Unlock()
	return val
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.getValue(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.getValue(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.getValue(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.getValue(category, name))
}

// SetValue writes one setting and invalidates the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	err := m.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.refreshed = time.Time{}
	m.mu.Unlock()
	return nil
}
