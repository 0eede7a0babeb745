package webserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/asaskevich/EventBus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kiosklab/vendtix/config"
	"github.com/kiosklab/vendtix/internal/ordering"
)

// Context keys under which the per-request collaborators are published to
// handlers.
const (
	ContextDBKey       = "vendtix_db"
	ContextPlacerKey   = "vendtix_placer"
	ContextBusKey      = "vendtix_bus"
	ContextConfigKey   = "vendtix_config"
	ContextSettingsKey = "vendtix_settings"
)

// Settings is the runtime settings surface handlers may consult. The
// app's sys_config manager satisfies it.
type Settings interface {
	GetString(category, name string) string
	GetInt(category, name string) int
	SetValue(category, name, value string) error
}

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
}

func New(cfg *config.AppConfig, db *gorm.DB, placer *ordering.OrderPlacer, bus EventBus.Bus, settings Settings) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, db)
			c.Set(ContextPlacerKey, placer)
			c.Set(ContextBusKey, bus)
			c.Set(ContextConfigKey, cfg)
			c.Set(ContextSettingsKey, settings)
			return next(c)
		}
	})

	e.Static("/images", cfg.System.Workdir+"/public/images")

	return &WebServer{cfg: cfg, root: e}
}

// Root exposes the echo instance for route registration.
func (s *WebServer) Root() *echo.Echo {
	return s.root
}

// AdminGroup returns the JWT-protected /admin group.
func (s *WebServer) AdminGroup() *echo.Group {
	g := s.root.Group("/admin")
	g.Use(s.AuthMiddleware())
	return g
}

// AuthMiddleware verifies the store bearer token issued by the login
// endpoint.
func (s *WebServer) AuthMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.cfg.Web.JwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	})
}

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(ContextDBKey).(*gorm.DB)
}

// GetPlacer returns the order placement engine.
func GetPlacer(c echo.Context) *ordering.OrderPlacer {
	return c.Get(ContextPlacerKey).(*ordering.OrderPlacer)
}

// GetBus returns the process-local event bus.
func GetBus(c echo.Context) EventBus.Bus {
	return c.Get(ContextBusKey).(EventBus.Bus)
}

// GetConfig returns the application config.
func GetConfig(c echo.Context) *config.AppConfig {
	return c.Get(ContextConfigKey).(*config.AppConfig)
}

// GetSettings returns the runtime settings surface, or nil when none was
// installed.
func GetSettings(c echo.Context) Settings {
	s, _ := c.Get(ContextSettingsKey).(Settings)
	return s
}
