package kioskapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/webserver"
	"github.com/kiosklab/vendtix/pkg/common"
)

type storeLoginPayload struct {
	StoreID  int64  `json:"store_id"`
	Password string `json:"password"`
}

// storeRegion carries the store's region names resolved with explicit
// joins; no relation traversal happens after the query.
type storeRegion struct {
	Prefecture   string
	Municipality string
}

func loginStore(c echo.Context) error {
	var payload storeLoginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}

	db := webserver.GetDB(c)
	var store domain.Store
	err := db.Where("id = ?", payload.StoreID).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !common.CheckPassword(payload.Password, store.PasswordHash)) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Store id or password is incorrect", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query store", nil)
	}

	region := lookupStoreRegion(db, store.MunicipalityID)

	cfg := webserver.GetConfig(c)
	expire := time.Duration(cfg.Web.JwtExpireMinutes) * time.Minute
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(store.ID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	return ok(c, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"store_info": map[string]interface{}{
			"id":           store.ID,
			"name":         store.Name,
			"prefecture":   region.Prefecture,
			"municipality": region.Municipality,
		},
	})
}

func lookupStoreRegion(db *gorm.DB, municipalityID int64) storeRegion {
	var region storeRegion
	db.Table("municipalities").
		Select("municipalities.name AS municipality, prefectures.name AS prefecture").
		Joins("LEFT JOIN prefectures ON prefectures.id = municipalities.prefecture_id").
		Where("municipalities.id = ?", municipalityID).
		Scan(&region)
	return region
}

func getMyStore(c echo.Context) error {
	token, okCast := c.Get("user").(*jwt.Token)
	if !okCast {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
	}
	claims, okCast := token.Claims.(jwt.MapClaims)
	if !okCast {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
	}
	storeID, err := strconv.ParseInt(castSubject(claims), 10, 64)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token subject", nil)
	}

	db := webserver.GetDB(c)
	var store domain.Store
	if err := db.Where("id = ?", storeID).First(&store).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "STORE_NOT_FOUND", "Store not found", nil)
	}
	region := lookupStoreRegion(db, store.MunicipalityID)

	return ok(c, map[string]interface{}{
		"store_id":     store.ID,
		"store_name":   store.Name,
		"address":      store.AddressDetail,
		"municipality": region.Municipality,
		"prefecture":   region.Prefecture,
	})
}

func castSubject(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
