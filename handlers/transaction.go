package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"arland/gateway"
	"arland/models"
)

type TransactionController struct {
	db      *gorm.DB
	gateway *gateway.RazorpayClient
}

func NewTransactionController(db *gorm.DB, gw *gateway.RazorpayClient) *TransactionController {
	return &TransactionController{db: db, gateway: gw}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// CreateOrder is the raw order-creation endpoint. The session is already
// validated by the JWT middleware; the amount is re-checked here and the
// gateway secret never reaches the caller, only the public key id does.
func (tc *TransactionController) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid amount"})
	}

	if !tc.gateway.Configured() {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Payment service configuration error"})
	}

	order, err := tc.gateway.CreateOrder(c.Request().Context(), gateway.OrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to create order"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order":  order,
		"key_id": tc.gateway.KeyID,
	})
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPayment recomputes the capture signature server-side and reports
// validity. The client-side check is never trusted.
func (tc *TransactionController) VerifyPayment(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	valid := tc.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)

	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

// BookProperty starts a token booking: it creates a gateway order for the
// fixed booking amount and only then writes the pending transaction row, so
// every persisted booking is backed by a real order. A gateway failure
// leaves no row behind.
func (tc *TransactionController) BookProperty(c echo.Context) error {
	userID := c.Get("user_id").(string)
	propertyID := c.Param("id")

	var property models.Property
	err := tc.db.First(&property, "id = ?", propertyID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch property"})
	}

	if property.Status != models.StatusActive {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Property is not available for booking"})
	}

	if !tc.gateway.Configured() {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Payment service configuration error"})
	}

	order, err := tc.gateway.CreateOrder(c.Request().Context(), gateway.OrderRequest{
		Amount:   models.BookingTokenAmount,
		Currency: "INR",
		Receipt:  fmt.Sprintf("rcpt_%d", time.Now().UnixMilli()),
		Notes: map[string]string{
			"property_id":    property.ID,
			"property_title": property.Title,
		},
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to initiate payment"})
	}

	txn := models.Transaction{
		UserID:          userID,
		PropertyID:      &property.ID,
		PropertyTitle:   property.Title,
		PropertyType:    property.Type,
		Amount:          models.BookingTokenAmount,
		RazorpayOrderID: order.ID,
		Status:          models.TxnPending,
	}

	if err := tc.db.Create(&txn).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record transaction"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"transaction": txn,
		"order":       order,
		"key_id":      tc.gateway.KeyID,
	})
}

type confirmRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// ConfirmTransaction settles a pending booking after the gateway callback.
// The signature is verified here and the outcome is terminal: completed
// when valid, failed when not. Payment id and signature are recorded either
// way so a failed capture stays auditable.
func (tc *TransactionController) ConfirmTransaction(c echo.Context) error {
	userID := c.Get("user_id").(string)
	id := c.Param("id")

	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payment id and signature are required"})
	}

	var txn models.Transaction
	err := tc.db.First(&txn, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch transaction"})
	}

	if txn.UserID != userID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "You are not authorized to update this transaction"})
	}

	status := models.TxnCompleted
	if !tc.gateway.VerifySignature(txn.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		status = models.TxnFailed
	}

	if !models.CanTransition(txn.Status, status) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Transaction is already settled"})
	}

	txn.RazorpayPaymentID = req.RazorpayPaymentID
	txn.RazorpaySignature = req.RazorpaySignature
	txn.Status = status

	if err := tc.db.Save(&txn).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update transaction"})
	}

	return c.JSON(http.StatusOK, txn)
}

// CancelTransaction is the dismiss path: the user closed the payment UI
// without completing it. Payment id and signature stay empty.
func (tc *TransactionController) CancelTransaction(c echo.Context) error {
	userID := c.Get("user_id").(string)
	id := c.Param("id")

	var txn models.Transaction
	err := tc.db.First(&txn, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch transaction"})
	}

	if txn.UserID != userID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "You are not authorized to update this transaction"})
	}

	if txn.Status == models.TxnCancelled {
		return c.JSON(http.StatusOK, txn)
	}
	if !models.CanTransition(txn.Status, models.TxnCancelled) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Transaction is already settled"})
	}

	txn.Status = models.TxnCancelled
	txn.RazorpayPaymentID = ""
	txn.RazorpaySignature = ""

	if err := tc.db.Save(&txn).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update transaction"})
	}

	return c.JSON(http.StatusOK, txn)
}

func (tc *TransactionController) MyTransactions(c echo.Context) error {
	userID := c.Get("user_id").(string)

	txns := []models.Transaction{}
	if err := tc.db.Where("user_id = ?", userID).Order("created_at desc").Find(&txns).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch transactions"})
	}

	return c.JSON(http.StatusOK, txns)
}

// AdminListTransactions returns every transaction enriched with the buyer
// profile and the live property record, joined in application code. A
// deleted property or a profile without a phone degrades to null fields.
func (tc *TransactionController) AdminListTransactions(c echo.Context) error {
	txns := []models.Transaction{}
	if err := tc.db.Order("created_at desc").Find(&txns).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch transactions"})
	}

	if len(txns) == 0 {
		return c.JSON(http.StatusOK, []models.AdminTransaction{})
	}

	userIDs := make([]string, 0, len(txns))
	propertyIDs := make([]string, 0, len(txns))
	seenUser := map[string]bool{}
	seenProp := map[string]bool{}
	for _, t := range txns {
		if t.UserID != "" && !seenUser[t.UserID] {
			seenUser[t.UserID] = true
			userIDs = append(userIDs, t.UserID)
		}
		if t.PropertyID != nil && !seenProp[*t.PropertyID] {
			seenProp[*t.PropertyID] = true
			propertyIDs = append(propertyIDs, *t.PropertyID)
		}
	}

	users := []models.User{}
	if len(userIDs) > 0 {
		tc.db.Where("id IN ?", userIDs).Find(&users)
	}
	properties := []models.Property{}
	if len(propertyIDs) > 0 {
		tc.db.Where("id IN ?", propertyIDs).Find(&properties)
	}

	userMap := make(map[string]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}
	propMap := make(map[string]models.Property, len(properties))
	for _, p := range properties {
		propMap[p.ID] = p
	}

	out := make([]models.AdminTransaction, 0, len(txns))
	for _, t := range txns {
		row := models.AdminTransaction{Transaction: t}
		if u, ok := userMap[t.UserID]; ok {
			name := u.Name
			row.UserFullName = &name
			if u.Phone != "" {
				phone := u.Phone
				row.UserPhone = &phone
			}
		}
		if t.PropertyID != nil {
			if p, ok := propMap[*t.PropertyID]; ok {
				location, district, price := p.Location, p.District, p.Price
				row.PropertyLocation = &location
				row.PropertyDistrict = &district
				row.PropertyPrice = &price
			}
		}
		out = append(out, row)
	}

	return c.JSON(http.StatusOK, out)
}

type transactionStatusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateTransactionStatus is the manual override for support and
// reconciliation. It may set any status at any time and is not checked
// against the forward-transition table.
func (tc *TransactionController) AdminUpdateTransactionStatus(c echo.Context) error {
	id := c.Param("id")

	var req transactionStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if !models.IsValidTransactionStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	var txn models.Transaction
	err := tc.db.First(&txn, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch transaction"})
	}

	txn.Status = req.Status
	if err := tc.db.Save(&txn).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update transaction"})
	}

	return c.JSON(http.StatusOK, txn)
}
