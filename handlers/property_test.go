package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arland/handlers"
	"arland/models"
	"arland/utils"
)

func submissionBody(t *testing.T, overrides map[string]interface{}) string {
	t.Helper()
	body := map[string]interface{}{
		"title":        "Spacious plot near the highway",
		"type":         "Land",
		"location":     "Rajarhat, Kolkata",
		"district":     "Kolkata",
		"price":        4500000,
		"area":         "3 Bigha",
		"area_unit":    "bigha",
		"description":  "Flat land with clear title, road access, water and electricity nearby.",
		"seller_name":  "Arup Das",
		"seller_phone": "+91 98765 43210",
		"seller_email": "arup@example.com",
		"images":       []string{"https://example.com/1.jpg", "https://example.com/2.jpg"},
		"features":     []string{"Highway Facing", "Clear Title"},
	}
	for k, v := range overrides {
		body[k] = v
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return string(data)
}

func TestSubmitPropertyForcesPending(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)

	body := submissionBody(t, map[string]interface{}{"status": "active"})
	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)

	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Property
	decodeJSON(t, rec, &created)
	assert.Equal(t, models.StatusPending, created.Status)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, user.ID, *created.CreatedBy)

	var stored models.Property
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSubmitPropertyShortTitleRejected(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)

	body := submissionBody(t, map[string]interface{}{"title": "Hi!"})
	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)

	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decodeJSON(t, rec, &resp)
	assert.Contains(t, resp.Errors, "title")

	var count int64
	db.Model(&models.Property{}).Count(&count)
	assert.Zero(t, count, "a failed validation must not write to the store")
}

func TestSubmitPropertyImageCap(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)

	images := make([]string, 6)
	for i := range images {
		images[i] = fmt.Sprintf("https://example.com/%d.jpg", i)
	}
	body := submissionBody(t, map[string]interface{}{"images": images})
	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)

	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decodeJSON(t, rec, &resp)
	assert.Contains(t, resp.Errors, "images")
}

func TestSubmitPropertyDropsBlankFeatures(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)

	body := submissionBody(t, map[string]interface{}{"features": []string{"Water Supply", "", "   ", "Gated Area"}})
	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)

	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Property
	decodeJSON(t, rec, &created)
	assert.Equal(t, []string{"Water Supply", "Gated Area"}, created.Features)
}

func TestSubmitPropertyInvalidDistrict(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)

	body := submissionBody(t, map[string]interface{}{"district": "Mumbai"})
	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)

	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decodeJSON(t, rec, &resp)
	assert.Contains(t, resp.Errors, "district")
}

func TestListPropertiesActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()

	active := seedProperty(t, db, models.StatusActive, 1000000, nil)
	seedProperty(t, db, models.StatusPending, 2000000, nil)
	seedProperty(t, db, models.StatusRejected, 3000000, nil)
	seedProperty(t, db, models.StatusDraft, 4000000, nil)

	c, rec := newContext(e, http.MethodGet, "/api/properties", "")
	require.NoError(t, pc.ListProperties(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.Property
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}

func TestListPropertiesPriceRangeInclusive(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()

	for _, price := range []int64{500000, 1000000, 2500000, 5000000, 9000000} {
		seedProperty(t, db, models.StatusActive, price, nil)
	}

	c, rec := newContext(e, http.MethodGet, "/api/properties?min_price=1000000&max_price=5000000", "")
	require.NoError(t, pc.ListProperties(c))

	var listed []models.Property
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 3)
	for _, p := range listed {
		assert.GreaterOrEqual(t, p.Price, int64(1000000))
		assert.LessOrEqual(t, p.Price, int64(5000000))
	}
}

func TestListPropertiesSearchMatchesTitleOrLocation(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()

	byTitle := seedProperty(t, db, models.StatusActive, 1000000, func(p *models.Property) {
		p.Title = "Riverside Bungalow Plot"
		p.Location = "Chandannagar"
	})
	byLocation := seedProperty(t, db, models.StatusActive, 2000000, func(p *models.Property) {
		p.Title = "Commercial Shop Space"
		p.Location = "Riverside Road, Howrah"
	})
	seedProperty(t, db, models.StatusActive, 3000000, func(p *models.Property) {
		p.Title = "Farm Land"
		p.Location = "Bolpur"
	})

	c, rec := newContext(e, http.MethodGet, "/api/properties?search=riverside", "")
	require.NoError(t, pc.ListProperties(c))

	var listed []models.Property
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 2)
	ids := []string{listed[0].ID, listed[1].ID}
	assert.Contains(t, ids, byTitle.ID)
	assert.Contains(t, ids, byLocation.ID)
}

func TestListPropertiesPriceSort(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()

	seedProperty(t, db, models.StatusActive, 3000000, nil)
	seedProperty(t, db, models.StatusActive, 1000000, nil)
	seedProperty(t, db, models.StatusActive, 2000000, nil)

	c, rec := newContext(e, http.MethodGet, "/api/properties?sort=price_asc", "")
	require.NoError(t, pc.ListProperties(c))

	var listed []models.Property
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 3)
	assert.Equal(t, int64(1000000), listed[0].Price)
	assert.Equal(t, int64(2000000), listed[1].Price)
	assert.Equal(t, int64(3000000), listed[2].Price)

	c, rec = newContext(e, http.MethodGet, "/api/properties?sort=price_desc", "")
	require.NoError(t, pc.ListProperties(c))
	decodeJSON(t, rec, &listed)
	assert.Equal(t, int64(3000000), listed[0].Price)
}

func TestApproveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	property := seedProperty(t, db, models.StatusPending, 1000000, nil)

	for i := 0; i < 2; i++ {
		c, rec := authContext(e, http.MethodPatch, "/api/admin/properties/"+property.ID+"/status",
			`{"status":"active"}`, admin.ID, admin.Role)
		c.SetParamNames("id")
		c.SetParamValues(property.ID)
		require.NoError(t, pc.AdminUpdateStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var stored models.Property
	require.NoError(t, db.First(&stored, "id = ?", property.ID).Error)
	assert.Equal(t, models.StatusActive, stored.Status)

	var count int64
	db.Model(&models.Property{}).Count(&count)
	assert.Equal(t, int64(1), count, "re-approving must not create a duplicate record")
}

func TestRejectRemovesFromPublicBrowse(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	property := seedProperty(t, db, models.StatusPending, 1000000, nil)

	c, rec := authContext(e, http.MethodPatch, "/api/admin/properties/"+property.ID+"/status",
		`{"status":"rejected","reason":"Images do not match the address"}`, admin.ID, admin.Role)
	c.SetParamNames("id")
	c.SetParamValues(property.ID)
	require.NoError(t, pc.AdminUpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Property
	require.NoError(t, db.First(&stored, "id = ?", property.ID).Error)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, "Images do not match the address", stored.RejectReason)

	browse, browseRec := newContext(e, http.MethodGet, "/api/properties", "")
	require.NoError(t, pc.ListProperties(browse))
	var listed []models.Property
	decodeJSON(t, browseRec, &listed)
	for _, p := range listed {
		assert.NotEqual(t, property.ID, p.ID)
	}
}

func TestAdminEditBeforeApproveKeepsPending(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	property := seedProperty(t, db, models.StatusPending, 1000000, nil)

	body := submissionBody(t, map[string]interface{}{
		"title":  "Corrected plot title for review",
		"status": "pending",
	})
	c, rec := authContext(e, http.MethodPut, "/api/admin/properties/"+property.ID, body, admin.ID, admin.Role)
	c.SetParamNames("id")
	c.SetParamValues(property.ID)
	require.NoError(t, pc.AdminUpdateProperty(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Property
	require.NoError(t, db.First(&stored, "id = ?", property.ID).Error)
	assert.Equal(t, "Corrected plot title for review", stored.Title)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestAdminCreateAllowsAnyStatusAndLargerCaps(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	images := make([]string, 6)
	for i := range images {
		images[i] = fmt.Sprintf("https://example.com/%d.jpg", i)
	}
	body := submissionBody(t, map[string]interface{}{
		"status":       "sold",
		"images":       images,
		"seller_name":  "",
		"seller_phone": "",
		"seller_email": "",
	})
	c, rec := authContext(e, http.MethodPost, "/api/admin/properties", body, admin.ID, admin.Role)
	require.NoError(t, pc.AdminCreateProperty(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Property
	decodeJSON(t, rec, &created)
	assert.Equal(t, models.StatusSold, created.Status)
	assert.Len(t, created.Images, 6)
}

func TestAdminDeleteClearsTransactionReference(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)
	user := seedUser(t, db, "Buyer", "buyer@example.com", "+918765432109", models.RoleUser)

	property := seedProperty(t, db, models.StatusActive, 1000000, nil)

	txn := models.Transaction{
		UserID:          user.ID,
		PropertyID:      &property.ID,
		PropertyTitle:   property.Title,
		PropertyType:    property.Type,
		Amount:          models.BookingTokenAmount,
		RazorpayOrderID: "order_abc",
		Status:          models.TxnCompleted,
	}
	require.NoError(t, db.Create(&txn).Error)

	c, rec := authContext(e, http.MethodDelete, "/api/admin/properties/"+property.ID, "", admin.ID, admin.Role)
	c.SetParamNames("id")
	c.SetParamValues(property.ID)
	require.NoError(t, pc.AdminDeleteProperty(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.Nil(t, stored.PropertyID)
	assert.Equal(t, property.Title, stored.PropertyTitle, "the snapshot survives deletion")

	var count int64
	db.Model(&models.Property{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetPropertyVisibility(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	owner := seedUser(t, db, "Owner", "owner@example.com", "", models.RoleUser)
	stranger := seedUser(t, db, "Stranger", "stranger@example.com", "", models.RoleUser)
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	property := seedProperty(t, db, models.StatusPending, 1000000, func(p *models.Property) {
		p.CreatedBy = &owner.ID
	})

	fetch := func(token string) int {
		c, rec := newContext(e, http.MethodGet, "/api/properties/"+property.ID, "")
		if token != "" {
			c.Request().Header.Set("Authorization", "Bearer "+token)
		}
		c.SetParamNames("id")
		c.SetParamValues(property.ID)
		require.NoError(t, pc.GetProperty(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusNotFound, fetch(""), "pending listings are hidden from anonymous callers")

	strangerToken, err := utils.GenerateJWT(stranger.ID, stranger.Email, stranger.Role)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, fetch(strangerToken))

	ownerToken, err := utils.GenerateJWT(owner.ID, owner.Email, owner.Role)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, fetch(ownerToken))

	adminToken, err := utils.GenerateJWT(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, fetch(adminToken))
}

func TestSubmissionRoundTripAfterApproval(t *testing.T) {
	db := setupTestDB(t)
	pc := handlers.NewPropertyController(db)
	e := echo.New()
	user := seedUser(t, db, "Arup Das", "arup@example.com", "+919876543210", models.RoleUser)
	admin := seedUser(t, db, "Admin", "admin@example.com", "", models.RoleAdmin)

	images := []string{"https://example.com/cover.jpg", "https://example.com/second.jpg"}
	features := []string{"Highway Facing", "Clear Title", "Water Supply"}
	body := submissionBody(t, map[string]interface{}{
		"district": "Kolkata",
		"price":    4500000,
		"area":     "3 Bigha",
		"images":   images,
		"features": features,
	})

	c, rec := authContext(e, http.MethodPost, "/api/properties", body, user.ID, user.Role)
	require.NoError(t, pc.SubmitProperty(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Property
	decodeJSON(t, rec, &created)

	c, rec = authContext(e, http.MethodPatch, "/api/admin/properties/"+created.ID+"/status",
		`{"status":"active"}`, admin.ID, admin.Role)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, pc.AdminUpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/properties/"+created.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, pc.GetProperty(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.Property
	decodeJSON(t, rec, &fetched)
	assert.Equal(t, "Spacious plot near the highway", fetched.Title)
	assert.Equal(t, "Kolkata", fetched.District)
	assert.Equal(t, int64(4500000), fetched.Price)
	assert.Equal(t, "3 Bigha", fetched.Area)
	assert.Equal(t, "bigha", fetched.AreaUnit)
	assert.Equal(t, images, fetched.Images)
	assert.Equal(t, features, fetched.Features)
}
