// Package kioskapi serves the customer-facing kiosk endpoints: store
// login, menu reads, demographic capture and order submission.
package kioskapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes attaches the kiosk endpoints to the server root. Only
// /stores/me requires a bearer token; the kiosk itself is trusted per
// store after login.
func RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/", healthCheck)
	e.POST("/login/store", loginStore)
	e.GET("/stores/me", getMyStore, auth)
	e.GET("/stores/:id/products", listStoreProducts)
	e.POST("/customer-attributes", createCustomerAttribute)
	e.POST("/orders", createOrder)
}

func healthCheck(c echo.Context) error {
	return ok(c, map[string]interface{}{"message": "Vending Machine API is running"})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}
