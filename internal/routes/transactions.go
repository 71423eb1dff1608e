package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearstream/clearstream/internal/transactions"
)

// RegisterTransactionRoutes adds transaction submission and account snapshot
// endpoints.
func RegisterTransactionRoutes(api fiber.Router, h *transactions.Handler) {
	api.Post("/transactions", h.Submit)
	api.Get("/accounts", h.ListAccounts)
	api.Get("/accounts/:client", h.GetAccount)
}
