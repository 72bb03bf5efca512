package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"arland/models"
	"arland/utils"
)

const (
	listingCachePrefix = "properties"
	listingCacheTTL    = 60 * time.Second
)

type PropertyController struct {
	db *gorm.DB
}

func NewPropertyController(db *gorm.DB) *PropertyController {
	return &PropertyController{db: db}
}

// ListProperties is the public browse endpoint. Only active listings are
// returned; results come newest-first unless a price sort is requested, in
// which case they are re-sorted after the fetch.
func (pc *PropertyController) ListProperties(c echo.Context) error {
	params := map[string]string{
		"type":      c.QueryParam("type"),
		"district":  c.QueryParam("district"),
		"min_price": c.QueryParam("min_price"),
		"max_price": c.QueryParam("max_price"),
		"search":    c.QueryParam("search"),
		"sort":      c.QueryParam("sort"),
	}
	cacheKey := utils.GenerateQueryCacheKey(listingCachePrefix, params)

	var cached []models.Property
	if hit, err := utils.GetCached(c.Request().Context(), cacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	query := pc.db.Where("status = ?", models.StatusActive)

	if t := params["type"]; t != "" && t != "all" {
		query = query.Where("type = ?", t)
	}
	if d := params["district"]; d != "" && d != "all" {
		query = query.Where("district = ?", d)
	}
	if minPrice := params["min_price"]; minPrice != "" {
		if min, err := strconv.ParseInt(minPrice, 10, 64); err == nil {
			query = query.Where("price >= ?", min)
		}
	}
	if maxPrice := params["max_price"]; maxPrice != "" {
		if max, err := strconv.ParseInt(maxPrice, 10, 64); err == nil {
			query = query.Where("price <= ?", max)
		}
	}
	if search := params["search"]; search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}

	properties := []models.Property{}
	if err := query.Order("created_at desc").Find(&properties).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}

	switch params["sort"] {
	case "price_asc":
		sort.SliceStable(properties, func(i, j int) bool { return properties[i].Price < properties[j].Price })
	case "price_desc":
		sort.SliceStable(properties, func(i, j int) bool { return properties[i].Price > properties[j].Price })
	}

	utils.SetCached(c.Request().Context(), cacheKey, properties, listingCacheTTL)

	return c.JSON(http.StatusOK, properties)
}

// GetProperty returns one listing. Non-active listings are visible only to
// an admin or to their creator.
func (pc *PropertyController) GetProperty(c echo.Context) error {
	id := c.Param("id")

	var property models.Property
	err := pc.db.First(&property, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	if property.Status != models.StatusActive {
		claims := bearerClaims(c)
		isOwner := claims != nil && property.CreatedBy != nil && *property.CreatedBy == claims.UserID
		isAdmin := claims != nil && claims.Role == models.RoleAdmin
		if !isOwner && !isAdmin {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
	}

	return c.JSON(http.StatusOK, property)
}

// SubmitProperty handles the self-service sell form. Submissions always
// start in pending regardless of any client-sent status.
func (pc *PropertyController) SubmitProperty(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var property models.Property
	if err := c.Bind(&property); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	utils.NormalizeProperty(&property)
	if errs := utils.ValidateSubmission(&property); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}

	property.ID = ""
	property.Status = models.StatusPending
	property.RejectReason = ""
	property.CreatedBy = &userID

	if err := pc.db.Create(&property).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit property"})
	}

	pc.invalidateListings(c)

	return c.JSON(http.StatusCreated, property)
}

func (pc *PropertyController) MySubmissions(c echo.Context) error {
	userID := c.Get("user_id").(string)

	properties := []models.Property{}
	if err := pc.db.Where("created_by = ?", userID).Order("created_at desc").Find(&properties).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch submissions"})
	}

	return c.JSON(http.StatusOK, properties)
}

func (pc *PropertyController) AdminListProperties(c echo.Context) error {
	properties := []models.Property{}
	if err := pc.db.Order("created_at desc").Find(&properties).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch properties"})
	}

	return c.JSON(http.StatusOK, properties)
}

// AdminCreateProperty lets an admin publish a listing directly in any
// status. Seller contact fields are optional here.
func (pc *PropertyController) AdminCreateProperty(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var property models.Property
	if err := c.Bind(&property); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	utils.NormalizeProperty(&property)
	if property.Status == "" {
		property.Status = models.StatusActive
	}
	if errs := utils.ValidateAdminListing(&property); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}

	property.ID = ""
	property.CreatedBy = &userID

	if err := pc.db.Create(&property).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create property"})
	}

	pc.invalidateListings(c)

	return c.JSON(http.StatusCreated, property)
}

// AdminUpdateProperty is the full edit form, used both for maintaining
// live listings and for cleaning up a submission before approving it.
func (pc *PropertyController) AdminUpdateProperty(c echo.Context) error {
	id := c.Param("id")

	var property models.Property
	err := pc.db.First(&property, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	var update models.Property
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	utils.NormalizeProperty(&update)
	if update.Status == "" {
		update.Status = property.Status
	}
	if errs := utils.ValidateAdminListing(&update); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": errs})
	}

	property.Title = update.Title
	property.Type = update.Type
	property.Status = update.Status
	property.Location = update.Location
	property.District = update.District
	property.Price = update.Price
	property.Area = update.Area
	property.AreaUnit = update.AreaUnit
	property.Description = update.Description
	property.Images = update.Images
	property.Features = update.Features
	property.SellerName = update.SellerName
	property.SellerPhone = update.SellerPhone
	property.SellerEmail = update.SellerEmail

	if err := pc.db.Save(&property).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update property"})
	}

	pc.invalidateListings(c)

	return c.JSON(http.StatusOK, property)
}

type statusChangeRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// AdminUpdateStatus performs approval, rejection and any other manual
// transition. Re-applying the current status is a no-op, so approving an
// already-active listing twice is harmless.
func (pc *PropertyController) AdminUpdateStatus(c echo.Context) error {
	id := c.Param("id")

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if !models.IsValidPropertyStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	var property models.Property
	err := pc.db.First(&property, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	if property.Status == req.Status {
		return c.JSON(http.StatusOK, property)
	}

	property.Status = req.Status
	if req.Status == models.StatusRejected {
		property.RejectReason = strings.TrimSpace(req.Reason)
	} else {
		property.RejectReason = ""
	}

	if err := pc.db.Save(&property).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update property status"})
	}

	pc.invalidateListings(c)

	return c.JSON(http.StatusOK, property)
}

// AdminDeleteProperty hard-deletes a listing. Transactions referencing it
// keep their title/type snapshot; only the live reference is cleared.
func (pc *PropertyController) AdminDeleteProperty(c echo.Context) error {
	id := c.Param("id")

	var property models.Property
	err := pc.db.First(&property, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).Where("property_id = ?", id).Update("property_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, "id = ?", id).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete property"})
	}

	pc.invalidateListings(c)

	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

func (pc *PropertyController) invalidateListings(c echo.Context) {
	utils.InvalidatePrefix(c.Request().Context(), listingCachePrefix)
}

// bearerClaims parses an optional Authorization header on a public route.
func bearerClaims(c echo.Context) *utils.JWTClaims {
	header := c.Request().Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}
	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil
	}
	return claims
}
