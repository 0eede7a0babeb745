package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/webserver"
)

type settingPayload struct {
	Value *string `json:"value"`
}

func registerSettingsRoutes(g *echo.Group) {
	g.GET("/settings", listSettings)
	g.PUT("/settings/:type/:name", updateSetting)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort, type, name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", nil)
	}
	return ok(c, rows)
}

// updateSetting changes one sys_config value. The write goes through the
// settings manager so its cache is invalidated and running components
// pick the new value up without a restart.
func updateSetting(c echo.Context) error {
	category := strings.TrimSpace(c.Param("type"))
	name := strings.TrimSpace(c.Param("name"))
	if category == "" || name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_KEY", "Setting type and name are required", nil)
	}

	var payload settingPayload
	if err := c.Bind(&payload); err != nil || payload.Value == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "value is required", nil)
	}

	var count int64
	if err := GetDB(c).Model(&domain.SysConfig{}).
		Where("type = ? AND name = ?", category, name).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query setting", nil)
	}
	if count == 0 {
		return fail(c, http.StatusNotFound, "SETTING_NOT_FOUND", "Setting not found", nil)
	}

	settings := webserver.GetSettings(c)
	if settings == nil {
		return fail(c, http.StatusInternalServerError, "SETTINGS_UNAVAILABLE", "Settings manager not installed", nil)
	}
	if err := settings.SetValue(category, name, *payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", nil)
	}
	return ok(c, map[string]interface{}{"type": category, "name": name, "value": *payload.Value})
}
