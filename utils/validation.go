package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"arland/models"
)

var (
	phonePattern    = regexp.MustCompile(`^[+\d\s\-()]{7,20}$`)
	imageURLPattern = regexp.MustCompile(`(?i)^https?://.+`)
)

// NormalizeProperty trims free-text fields and drops blank feature entries.
// Runs before validation so length checks see the trimmed values.
func NormalizeProperty(p *models.Property) {
	p.Title = strings.TrimSpace(p.Title)
	p.Location = strings.TrimSpace(p.Location)
	p.District = strings.TrimSpace(p.District)
	p.Area = strings.TrimSpace(p.Area)
	p.Description = strings.TrimSpace(p.Description)
	p.SellerName = strings.TrimSpace(p.SellerName)
	p.SellerPhone = strings.TrimSpace(p.SellerPhone)
	p.SellerEmail = strings.TrimSpace(p.SellerEmail)

	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	p.Features = features
}

// lengthBetween bounds a field by character count, not bytes, so Bengali
// and other multibyte text measures the same as ASCII.
func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// ValidateSubmission enforces the self-service submission contract. It
// returns one message per invalid field; an empty map means the listing may
// be persisted.
func ValidateSubmission(p *models.Property) map[string]string {
	errs := map[string]string{}

	if !lengthBetween(p.Title, 5, 200) {
		errs["title"] = "Title must be between 5 and 200 characters"
	}
	if !models.IsValidPropertyType(p.Type) {
		errs["type"] = "Please select a property type"
	}
	if !lengthBetween(p.Location, 3, 300) {
		errs["location"] = "Location must be between 3 and 300 characters"
	}
	if !models.IsValidDistrict(p.District) {
		errs["district"] = "Please select a district"
	}
	if p.Price <= 0 {
		errs["price"] = "Price must be positive"
	}
	if !lengthBetween(p.Area, 1, 50) {
		errs["area"] = "Area must be between 1 and 50 characters"
	}
	if !models.IsValidAreaUnit(p.AreaUnit) {
		errs["area_unit"] = "Invalid area unit"
	}
	if !lengthBetween(p.Description, 20, 2000) {
		errs["description"] = "Description must be between 20 and 2000 characters"
	}
	if !lengthBetween(p.SellerName, 2, 100) {
		errs["seller_name"] = "Your name is required"
	}
	if !phonePattern.MatchString(p.SellerPhone) {
		errs["seller_phone"] = "Enter a valid phone number"
	}
	if !isValidEmail(p.SellerEmail) {
		errs["seller_email"] = "Enter a valid email address"
	}
	if len(p.Images) > models.MaxUserImages {
		errs["images"] = "Maximum 5 images allowed"
	} else if msg := validateImageURLs(p.Images); msg != "" {
		errs["images"] = msg
	}
	if len(p.Features) > models.MaxUserFeatures {
		errs["features"] = "Maximum 8 features allowed"
	}

	return errs
}

// ValidateAdminListing enforces the admin console contract: larger image and
// feature caps, any valid status, seller contact optional.
func ValidateAdminListing(p *models.Property) map[string]string {
	errs := map[string]string{}

	if !lengthBetween(p.Title, 5, 200) {
		errs["title"] = "Title must be between 5 and 200 characters"
	}
	if !models.IsValidPropertyType(p.Type) {
		errs["type"] = "Please select a property type"
	}
	if !models.IsValidPropertyStatus(p.Status) {
		errs["status"] = "Invalid status"
	}
	if !lengthBetween(p.Location, 3, 300) {
		errs["location"] = "Location must be between 3 and 300 characters"
	}
	if !models.IsValidDistrict(p.District) {
		errs["district"] = "Please select a district"
	}
	if p.Price <= 0 {
		errs["price"] = "Price must be positive"
	}
	if !lengthBetween(p.Area, 1, 50) {
		errs["area"] = "Area must be between 1 and 50 characters"
	}
	if !models.IsValidAreaUnit(p.AreaUnit) {
		errs["area_unit"] = "Invalid area unit"
	}
	if p.SellerEmail != "" && !isValidEmail(p.SellerEmail) {
		errs["seller_email"] = "Enter a valid email address"
	}
	if p.SellerPhone != "" && !phonePattern.MatchString(p.SellerPhone) {
		errs["seller_phone"] = "Enter a valid phone number"
	}
	if len(p.Images) > models.MaxAdminImages {
		errs["images"] = "Maximum 6 images allowed"
	} else if msg := validateImageURLs(p.Images); msg != "" {
		errs["images"] = msg
	}
	if len(p.Features) > models.MaxAdminFeatures {
		errs["features"] = "Maximum 10 features allowed"
	}

	return errs
}

func validateImageURLs(images []string) string {
	for _, img := range images {
		if !imageURLPattern.MatchString(img) {
			return "Image URLs must start with http:// or https://"
		}
	}
	return ""
}

func isValidEmail(email string) bool {
	if email == "" || utf8.RuneCountInString(email) > 255 {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
