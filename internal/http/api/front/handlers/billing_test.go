package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/uden-ai/uden-server/internal/billing"
	"github.com/uden-ai/uden-server/internal/config"
	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/session"
	"gorm.io/gorm"
)

type fakeGateway struct {
	calls   int
	session *billing.CheckoutSession
	err     error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, _ billing.CheckoutParams) (*billing.CheckoutSession, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func billingEngine(conn *gorm.DB, gateway billing.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	catalog := billing.NewCatalog(config.StripeConfig{Products: config.StripeProducts{Premium: "price_premium_123"}})
	handler := NewBillingHandler(conn, gateway, catalog)
	group := engine.Group("/billing")
	group.Use(AuthMiddleware(conn))
	group.POST("/order", handler.Order)
	return engine
}

func orderRequestRec(t *testing.T, engine *gin.Engine, token, product string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/billing/order", strings.NewReader(`{"product":"`+product+`"}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func billingUser(t *testing.T, conn *gorm.DB) (*models.User, string) {
	t.Helper()
	user := models.User{Username: "alice", Email: "alice@example.com", Password: "digest", Salt: "salt"}
	if errSet := user.SetLinkedAccounts(nil); errSet != nil {
		t.Fatalf("set linked accounts: %v", errSet)
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	token, errIssue := session.Issue(context.Background(), conn, &user)
	if errIssue != nil {
		t.Fatalf("issue token: %v", errIssue)
	}
	return &user, token.Token
}

func TestOrder_Premium(t *testing.T) {
	conn := testConn(t)
	user, token := billingUser(t, conn)

	gateway := &fakeGateway{session: &billing.CheckoutSession{
		ID:        "cs_test_123",
		URL:       "https://checkout.example/cs_test_123",
		InvoiceID: "in_test_456",
		Payload:   []byte(`{"id":"cs_test_123"}`),
	}}
	engine := billingEngine(conn, gateway)

	rec := orderRequestRec(t, engine, token, "PREMIUM")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp["url"] != "https://checkout.example/cs_test_123" {
		t.Fatalf("unexpected redirect url %q", resp["url"])
	}

	var transaction models.Transaction
	if errFind := conn.First(&transaction).Error; errFind != nil {
		t.Fatalf("find transaction: %v", errFind)
	}
	if transaction.UserID != user.ID || transaction.StripeID != "cs_test_123" {
		t.Fatalf("unexpected transaction: user=%d stripe=%q", transaction.UserID, transaction.StripeID)
	}

	var invoice models.Invoice
	if errFind := conn.First(&invoice).Error; errFind != nil {
		t.Fatalf("find invoice: %v", errFind)
	}
	if invoice.UserID != user.ID || invoice.TransactionID != transaction.ID {
		t.Fatalf("unexpected invoice: user=%d transaction=%d", invoice.UserID, invoice.TransactionID)
	}
	if invoice.StripeID != "in_test_456" {
		t.Fatalf("unexpected invoice stripe id %q", invoice.StripeID)
	}
}

func TestOrder_InvalidProduct(t *testing.T) {
	conn := testConn(t)
	_, token := billingUser(t, conn)
	gateway := &fakeGateway{}
	engine := billingEngine(conn, gateway)

	rec := orderRequestRec(t, engine, token, "BASIC")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unrecognized product, got %d", rec.Code)
	}
	if gateway.calls != 0 {
		t.Fatalf("expected no gateway call for rejected product")
	}
}

func TestOrder_Unauthenticated(t *testing.T) {
	conn := testConn(t)
	gateway := &fakeGateway{}
	engine := billingEngine(conn, gateway)

	rec := orderRequestRec(t, engine, "", "PREMIUM")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	var count int64
	if errCount := conn.Model(&models.Transaction{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count transactions: %v", errCount)
	}
	if count != 0 || gateway.calls != 0 {
		t.Fatalf("expected no records or gateway calls before authentication")
	}
}

func TestOrder_GatewayFailure(t *testing.T) {
	conn := testConn(t)
	_, token := billingUser(t, conn)
	gateway := &fakeGateway{err: context.DeadlineExceeded}
	engine := billingEngine(conn, gateway)

	rec := orderRequestRec(t, engine, token, "PREMIUM")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on gateway failure, got %d", rec.Code)
	}

	var count int64
	if errCount := conn.Model(&models.Transaction{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count transactions: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no transaction persisted on gateway failure, got %d", count)
	}
}
