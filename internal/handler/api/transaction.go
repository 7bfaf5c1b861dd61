package api

import (
	"context"
	"errors"
	"net/http"

	"wishlink/internal/domain/transaction"
	reqdto "wishlink/internal/handler/dto/request"
	resdto "wishlink/internal/handler/dto/response"
	"wishlink/internal/handler/httperr"
	"wishlink/internal/handler/middleware"
	"wishlink/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	commands commands.TransactionCommands
}

func NewTransactionHandler(transactionCommands commands.TransactionCommands) *TransactionHandler {
	return &TransactionHandler{
		commands: transactionCommands,
	}
}

// @Summary Claim item
// @Description Reserve an item, or purchase it outright when purchase is true
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body reqdto.ClaimItemRequest true "Claim"
// @Success 201 {object} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionHandler) ClaimItem(c *gin.Context) {
	actor, ok := sessionActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ClaimItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.ClaimParams{
		WishlistID: req.WishlistID,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Purchase:   req.Purchase,
	}

	t, err := h.commands.Claim(c.Request.Context(), params, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrWishlistNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Wishlist not found",
			})
		case errors.Is(err, commands.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
		case errors.Is(err, commands.ErrInsufficientQuantity):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Not enough quantity available",
			})
		case errors.Is(err, commands.ErrRegistrationRequired):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "This wishlist requires a registered account",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromTransaction(t))
}

// @Summary Purchase claim
// @Description Mark a reserved claim as purchased
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /transactions/{id}/purchase [post]
func (h *TransactionHandler) PurchaseClaim(c *gin.Context) {
	h.finalize(c, h.commands.Purchase)
}

// @Summary Release claim
// @Description Cancel the caller's own reserved claim
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /transactions/{id}/release [post]
func (h *TransactionHandler) ReleaseClaim(c *gin.Context) {
	h.finalize(c, h.commands.Release)
}

func (h *TransactionHandler) finalize(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error),
) {
	actor, ok := sessionActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transaction ID format",
		})
		return
	}

	t, err := op(c.Request.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Transaction not found",
			})
		case errors.Is(err, commands.ErrNotTransactionHolder):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Transaction belongs to another session",
			})
		case errors.Is(err, commands.ErrAlreadyFinalized):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Transaction is already finalized",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransaction(t))
}

func sessionActor(c *gin.Context) (transaction.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return transaction.Actor{}, false
	}
	return transaction.Actor{
		ID:    userID,
		Guest: middleware.IsGuest(c),
	}, true
}
