package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/session"
	"gorm.io/gorm"
)

func userEngine(conn *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/user", NewUserHandler(conn).Get)
	return engine
}

func TestUserGet_WithCookie(t *testing.T) {
	conn := testConn(t)
	user := models.User{Username: "alice", Email: "alice@example.com", Password: "digest", Salt: "salt", Credits: 10_000}
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

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token.Token})
	rec := httptest.NewRecorder()
	userEngine(conn).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected username %v", resp["username"])
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password digest must not be exposed")
	}
	if _, leaked := resp["salt"]; leaked {
		t.Fatalf("salt must not be exposed")
	}
}

func TestUserGet_MissingOrInvalidCookie(t *testing.T) {
	conn := testConn(t)
	engine := userEngine(conn)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "null" {
		t.Fatalf("expected null for missing cookie, got %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-token"})
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "null" {
		t.Fatalf("expected null for unknown token, got %d %q", rec.Code, rec.Body.String())
	}
}
