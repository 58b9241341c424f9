package integration

import (
	"net/http"
	"testing"
	"time"

	"wealth/internal/models"
)

func TestAccountFlow_DefaultHandover(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "user_flow", "flow@test.com")

	// First account becomes the default even when not asked to.
	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"Checking","type":"CURRENT","balance":"100.50","isDefault":false}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	first := parseJSON(t, rec)["account"].(map[string]interface{})
	if first["isDefault"] != true {
		t.Errorf("expected first account to be default, got %v", first["isDefault"])
	}
	if first["balance"].(float64) != 100.5 {
		t.Errorf("expected balance 100.5, got %v", first["balance"])
	}
	if first["currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", first["currency"])
	}

	time.Sleep(5 * time.Millisecond)

	// A new default takes over.
	rec = app.request("POST", "/api/v1/accounts",
		`{"name":"Savings","type":"SAVINGS","balance":"0","currency":"EUR","isDefault":true}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	second := parseJSON(t, rec)["account"].(map[string]interface{})
	if second["isDefault"] != true {
		t.Errorf("expected second account to be default, got %v", second["isDefault"])
	}

	rec = app.request("GET", "/api/v1/accounts", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	newest := accounts[0].(map[string]interface{})
	oldest := accounts[1].(map[string]interface{})
	if newest["id"] != second["id"] || oldest["id"] != first["id"] {
		t.Errorf("expected newest first, got %v then %v", newest["name"], oldest["name"])
	}
	if oldest["isDefault"] != false {
		t.Errorf("expected old default to be cleared, got %v", oldest["isDefault"])
	}
	count := newest["_count"].(map[string]interface{})
	if count["transactions"].(float64) != 0 {
		t.Errorf("expected 0 transactions, got %v", count["transactions"])
	}

	var defaults int64
	app.DB.Model(&models.Account{}).Where("is_default = ?", true).Count(&defaults)
	if defaults != 1 {
		t.Errorf("expected exactly 1 default account, got %d", defaults)
	}
}

func TestAccountFlow_RejectsInvalidInput(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "user_invalid", "invalid@test.com")

	tests := []struct {
		name string
		body string
	}{
		{"bad balance", `{"name":"A","type":"CURRENT","balance":"abc"}`},
		{"bad type", `{"name":"A","type":"CRYPTO","balance":"1"}`},
		{"bad currency", `{"name":"A","type":"CURRENT","balance":"1","currency":"usd"}`},
		{"missing name", `{"type":"CURRENT","balance":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request("POST", "/api/v1/accounts", tt.body, token)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	var total int64
	app.DB.Model(&models.Account{}).Count(&total)
	if total != 0 {
		t.Errorf("expected no accounts to be stored, got %d", total)
	}
}

func TestAccountFlow_AccountsAreScopedToCaller(t *testing.T) {
	app := setupApp(t)
	alice := app.token(t, "user_alice", "alice@test.com")
	bob := app.token(t, "user_bob", "bob@test.com")

	rec := app.request("POST", "/api/v1/accounts", `{"name":"Alice","type":"CURRENT","balance":"10"}`, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/accounts", `{"name":"Bob","type":"CURRENT","balance":"20"}`, bob)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/accounts", "", bob)
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account for bob, got %d", len(accounts))
	}
	if accounts[0].(map[string]interface{})["name"] != "Bob" {
		t.Errorf("expected bob's account, got %v", accounts[0])
	}
	// Both callers keep their own default.
	if accounts[0].(map[string]interface{})["isDefault"] != true {
		t.Error("expected bob's only account to be default")
	}
}

func TestAccountFlow_Unauthenticated(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/accounts", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/accounts", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", rec.Code)
	}
}
