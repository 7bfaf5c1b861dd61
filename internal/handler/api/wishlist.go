package api

import (
	"errors"
	"net/http"

	reqdto "wishlink/internal/handler/dto/request"
	resdto "wishlink/internal/handler/dto/response"
	"wishlink/internal/handler/httperr"
	"wishlink/internal/handler/middleware"
	"wishlink/internal/usecase/commands"
	"wishlink/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WishlistHandler struct {
	commands commands.WishlistCommands
	queries  queries.WishlistQueries
}

func NewWishlistHandler(wishlistCommands commands.WishlistCommands, wishlistQueries queries.WishlistQueries) *WishlistHandler {
	return &WishlistHandler{
		commands: wishlistCommands,
		queries:  wishlistQueries,
	}
}

// @Summary Create wishlist
// @Description Create a wishlist with its initial items
// @Tags wishlists
// @Accept json
// @Produce json
// @Param request body reqdto.CreateWishlistRequest true "Wishlist"
// @Success 201 {object} resdto.WishlistResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /wishlists [post]
func (h *WishlistHandler) CreateWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateWishlistRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	w, err := h.commands.Create(c.Request.Context(), userID, req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromWishlist(w))
}

// @Summary Get wishlist
// @Description Get a wishlist with per-item claim state
// @Tags wishlists
// @Produce json
// @Param id path string true "Wishlist ID"
// @Success 200 {object} resdto.WishlistResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /wishlists/{id} [get]
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wishlist ID format",
		})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrWishlistNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Wishlist not found",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromWishlistView(view))
}

// @Summary List wishlists
// @Description List the current session's wishlists
// @Tags wishlists
// @Produce json
// @Success 200 {array} resdto.WishlistSummaryResponse
// @Router /wishlists [get]
func (h *WishlistHandler) ListWishlists(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	summaries, err := h.queries.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.WishlistSummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = resdto.FromWishlistSummary(s)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update wishlist
// @Description Replace the wishlist with the desired end state; reservations on removed or edited items are cancelled
// @Tags wishlists
// @Accept json
// @Produce json
// @Param id path string true "Wishlist ID"
// @Param request body reqdto.UpdateWishlistRequest true "Wishlist"
// @Success 200 {object} resdto.WishlistResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /wishlists/{id} [put]
func (h *WishlistHandler) UpdateWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wishlist ID format",
		})
		return
	}

	var req reqdto.UpdateWishlistRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	w, err := h.commands.Update(c.Request.Context(), id, userID, req.ToParams())
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
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the owner can edit this wishlist",
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

	c.JSON(http.StatusOK, resdto.FromWishlist(w))
}

// @Summary Delete wishlist
// @Description Delete a wishlist and everything under it
// @Tags wishlists
// @Produce json
// @Param id path string true "Wishlist ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /wishlists/{id} [delete]
func (h *WishlistHandler) DeleteWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wishlist ID format",
		})
		return
	}

	if err := h.commands.Delete(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the owner can delete this wishlist",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List item transactions
// @Description List an item's claims; restricted to the wishlist owner
// @Tags wishlists
// @Produce json
// @Param id path string true "Wishlist ID"
// @Param itemId path string true "Item ID"
// @Success 200 {array} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /wishlists/{id}/items/{itemId}/transactions [get]
func (h *WishlistHandler) GetItemTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	wishlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid wishlist ID format",
		})
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID format",
		})
		return
	}

	views, err := h.queries.ItemTransactions(c.Request.Context(), wishlistID, itemID, userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrWishlistNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Wishlist not found",
			})
		case errors.Is(err, queries.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the owner can view item transactions",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response := make([]*resdto.TransactionResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromTransactionView(view)
	}

	c.JSON(http.StatusOK, response)
}
