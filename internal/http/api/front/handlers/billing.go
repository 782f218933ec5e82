package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/uden-ai/uden-server/internal/billing"
	"github.com/uden-ai/uden-server/internal/store"
	"gorm.io/gorm"
)

// BillingHandler handles checkout session orders.
type BillingHandler struct {
	db      *gorm.DB
	gateway billing.Gateway
	catalog *billing.Catalog
	store   *store.ReconciliationStore
}

// NewBillingHandler constructs a BillingHandler.
func NewBillingHandler(db *gorm.DB, gateway billing.Gateway, catalog *billing.Catalog) *BillingHandler {
	return &BillingHandler{
		db:      db,
		gateway: gateway,
		catalog: catalog,
		store:   store.NewReconciliationStore(db),
	}
}

// orderRequest defines the request body for opening a checkout session.
type orderRequest struct {
	Product string `json:"product"`
}

// Order opens a subscription checkout session for the authenticated
// user, persists the Transaction and Invoice pair, and returns the
// hosted checkout redirect URL.
func (h *BillingHandler) Order(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body orderRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	lineItems, known := h.catalog.LineItems(body.Product)
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product"})
		return
	}

	returnURL := "http://" + c.Request.Host + "/settings/subscription"
	checkout, errCheckout := h.gateway.CreateCheckoutSession(c.Request.Context(), billing.CheckoutParams{
		LineItems:  lineItems,
		CustomerID: user.StripeCustomerID,
		SuccessURL: returnURL,
		CancelURL:  returnURL,
	})
	if errCheckout != nil {
		log.WithError(errCheckout).WithField("user_id", user.ID).Error("order: checkout session failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway request failed"})
		return
	}

	if _, _, errRecord := h.store.RecordCheckout(c.Request.Context(), user.ID, checkout); errRecord != nil {
		log.WithError(errRecord).WithField("user_id", user.ID).Error("order: persist checkout records failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order persistence failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": checkout.URL})
}
