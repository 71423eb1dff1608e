package transactions

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/clearstream/clearstream/internal/logging"
	"github.com/clearstream/clearstream/internal/processing"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := NewHandler(processing.New(), logging.Discard())
	app.Post("/transactions", h.Submit)
	app.Get("/accounts", h.ListAccounts)
	app.Get("/accounts/:client", h.GetAccount)
	return app
}

type response struct {
	Code int
	Body []byte
}

func post(t *testing.T, app *fiber.App, body string) response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transactions", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return response{Code: resp.StatusCode, Body: payload}
}

func TestSubmitDeposit(t *testing.T) {
	app := setupApp(t)

	rec := post(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"10.50"}`)
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var decoded struct {
		Account struct {
			Client    uint16 `json:"client"`
			Available string `json:"available"`
			Locked    bool   `json:"locked"`
		} `json:"account"`
	}
	if err := json.Unmarshal(rec.Body, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Account.Client != 1 || decoded.Account.Available != "10.5000" || decoded.Account.Locked {
		t.Fatalf("unexpected account %+v", decoded.Account)
	}
}

func TestSubmitValidation(t *testing.T) {
	app := setupApp(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing amount", `{"type":"deposit","client":1,"tx":1}`},
		{"negative amount", `{"type":"withdrawal","client":1,"tx":1,"amount":"-5"}`},
		{"unknown type", `{"type":"transfer","client":1,"tx":1,"amount":"5"}`},
		{"malformed amount", `{"type":"deposit","client":1,"tx":1,"amount":"abc"}`},
	}
	for _, tc := range cases {
		rec := post(t, app, tc.body)
		if rec.Code != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestSubmitErrorStatuses(t *testing.T) {
	app := setupApp(t)

	if rec := post(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"10.00"}`); rec.Code != fiber.StatusCreated {
		t.Fatalf("seed deposit failed: %d", rec.Code)
	}

	// Duplicate transaction id.
	if rec := post(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"10.00"}`); rec.Code != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}
	// Overdraft.
	if rec := post(t, app, `{"type":"withdrawal","client":1,"tx":2,"amount":"99.00"}`); rec.Code != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for overdraft, got %d", rec.Code)
	}
	// Dispute on unknown transaction.
	if rec := post(t, app, `{"type":"dispute","client":1,"tx":77}`); rec.Code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown dispute, got %d", rec.Code)
	}

	// Chargeback quarantine reports success and locks the account.
	if rec := post(t, app, `{"type":"chargeback","client":1,"tx":77}`); rec.Code != fiber.StatusCreated {
		t.Fatalf("expected 201 for quarantine chargeback, got %d", rec.Code)
	}
	if rec := post(t, app, `{"type":"deposit","client":1,"tx":3,"amount":"1.00"}`); rec.Code != fiber.StatusLocked {
		t.Fatalf("expected 423 for locked account, got %d", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	app := setupApp(t)

	post(t, app, `{"type":"deposit","client":7,"tx":1,"amount":"2.00"}`)

	req := httptest.NewRequest(fiber.MethodGet, "/accounts/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req = httptest.NewRequest(fiber.MethodGet, "/accounts/8", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req = httptest.NewRequest(fiber.MethodGet, "/accounts", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var decoded struct {
		Accounts []json.RawMessage `json:"accounts"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(decoded.Accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(decoded.Accounts))
	}
}
