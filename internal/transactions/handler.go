package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/clearstream/clearstream/internal/engine"
	"github.com/clearstream/clearstream/internal/processing"
)

// Handler exposes transaction submission and account snapshot endpoints.
type Handler struct {
	proc   *processing.Processor
	logger *slog.Logger
}

// NewHandler constructs a transactions handler.
func NewHandler(proc *processing.Processor, logger *slog.Logger) *Handler {
	return &Handler{proc: proc, logger: logger}
}

// Submit applies one transaction and returns the affected account's snapshot.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := req.toTransaction()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	item, err := h.proc.Submit(tx)
	if err != nil {
		h.logger.Info("transaction rejected",
			slog.String("type", req.Type),
			slog.Int("client", int(req.Client)),
			slog.Int("tx", int(req.Tx)),
			slog.Any("error", err),
		)
		return fiber.NewError(statusFor(err), err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"account": item,
	})
}

// ListAccounts returns every account snapshot.
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"accounts": h.proc.Snapshot()})
}

// GetAccount returns one client's snapshot.
func (h *Handler) GetAccount(c *fiber.Ctx) error {
	client, err := strconv.ParseUint(c.Params("client"), 10, 16)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "client id must fit in 16 bits")
	}

	item, ok := h.proc.SnapshotFor(uint16(client))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.JSON(fiber.Map{"account": item})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, engine.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateTransactionID),
		errors.Is(err, engine.ErrDisputeAlreadyStarted),
		errors.Is(err, engine.ErrDisputeNotStarted),
		errors.Is(err, engine.ErrDisputeNotAllowed),
		errors.Is(err, engine.ErrDisputeAlreadyChargedback):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInsufficientHoldsToResolveDispute),
		errors.Is(err, engine.ErrInvalidTotalAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
