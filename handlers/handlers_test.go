package handlers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"arland/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}, &models.Transaction{}))
	return db
}

func newContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authContext(e *echo.Echo, method, path, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newContext(e, method, path, body)
	c.Set("user_id", userID)
	c.Set("user_role", role)
	return c, rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func seedUser(t *testing.T, db *gorm.DB, name, email, phone, role string) models.User {
	user := models.User{
		Email:    email,
		Password: "hashed",
		Name:     name,
		Phone:    phone,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProperty(t *testing.T, db *gorm.DB, status string, price int64, mutate func(*models.Property)) models.Property {
	property := models.Property{
		Title:       "2 Bigha Land Near Highway",
		Type:        models.TypeLand,
		Status:      status,
		Location:    "Rajarhat, Kolkata",
		District:    "Kolkata",
		Price:       price,
		Area:        "2",
		AreaUnit:    "bigha",
		Description: "Well connected plot with clear title and road access.",
		Images:      []string{"https://example.com/a.jpg"},
		Features:    []string{"Clear Title"},
		SellerName:  "Arup Das",
		SellerPhone: "+91 98765 43210",
		SellerEmail: "arup@example.com",
	}
	if mutate != nil {
		mutate(&property)
	}
	require.NoError(t, db.Create(&property).Error)
	return property
}

func gatewaySignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// fakeGateway mimics the Razorpay orders API. When fail is true every call
// returns a 500.
func fakeGateway(t *testing.T, fail bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"description":"internal error"}}`))
			return
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_test123",
			"amount":   body["amount"],
			"currency": body["currency"],
			"receipt":  body["receipt"],
			"status":   "created",
		})
	}))
}
