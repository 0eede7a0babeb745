package kioskapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/webserver"
	"github.com/kiosklab/vendtix/pkg/common"
)

type customerAttributePayload struct {
	StoreID  int64  `json:"store_id"`
	AgeGroup string `json:"age_group"`
	Gender   string `json:"gender"`
}

// createCustomerAttribute records the optional demographic tag captured
// at the kiosk before an order. The returned id is passed back with the
// order submission.
func createCustomerAttribute(c echo.Context) error {
	var payload customerAttributePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse attribute parameters", nil)
	}

	attr := domain.CustomerAttribute{
		ID:        common.UUIDint64(),
		StoreID:   payload.StoreID,
		AgeGroup:  payload.AgeGroup,
		Gender:    payload.Gender,
		ScannedAt: time.Now(),
	}
	if err := webserver.GetDB(c).Create(&attr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer attribute", nil)
	}

	return ok(c, map[string]interface{}{
		"attribute_id": attr.ID,
		"store_id":     attr.StoreID,
		"age_group":    attr.AgeGroup,
		"gender":       attr.Gender,
		"scanned_at":   attr.ScannedAt.Format(time.RFC3339),
	})
}
