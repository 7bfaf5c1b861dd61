//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wishlink/internal/domain/transaction"
	"wishlink/internal/handler/api"
	"wishlink/internal/handler/middleware"
	"wishlink/internal/infra/rowstore"
	"wishlink/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinter struct {
	session rowstore.Session
	err     error
}

func (m *fakeMinter) EnsureSession(context.Context) (rowstore.Session, error) {
	return m.session, m.err
}

type fakeTransactionCommands struct {
	claim    func(commands.ClaimParams, transaction.Actor) (*transaction.Transaction, error)
	finalize func(uuid.UUID, transaction.Actor) (*transaction.Transaction, error)
}

func (f *fakeTransactionCommands) Claim(_ context.Context, p commands.ClaimParams, actor transaction.Actor) (*transaction.Transaction, error) {
	return f.claim(p, actor)
}

func (f *fakeTransactionCommands) Purchase(_ context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error) {
	return f.finalize(id, actor)
}

func (f *fakeTransactionCommands) Release(_ context.Context, id uuid.UUID, actor transaction.Actor) (*transaction.Transaction, error) {
	return f.finalize(id, actor)
}

func newTransactionRouter(cmds commands.TransactionCommands, minter middleware.SessionMinter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	session := middleware.NewSessionMiddleware(minter)
	handler := api.NewTransactionHandler(cmds)

	group := router.Group("/api/transactions")
	group.Use(session.EnsureSession())
	group.POST("", handler.ClaimItem)
	group.POST("/:id/purchase", handler.PurchaseClaim)
	group.POST("/:id/release", handler.ReleaseClaim)
	return router
}

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func reservedTransaction(t *testing.T, actor transaction.Actor) *transaction.Transaction {
	t.Helper()
	tx, err := transaction.NewTransaction(transaction.ItemSpec{
		ID:        uuid.New(),
		Available: 5,
	}, actor, 1, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return tx
}

func claimBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"wishlistId": uuid.New().String(),
		"itemId":     uuid.New().String(),
		"quantity":   1,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(payload)
}

func TestClaimItem(t *testing.T) {
	minter := &fakeMinter{session: rowstore.Session{
		Token:  "minted-token",
		UserID: "guest-9",
		Guest:  true,
	}}

	t.Run("tokenless request gets a minted guest session", func(t *testing.T) {
		var gotActor transaction.Actor
		cmds := &fakeTransactionCommands{
			claim: func(_ commands.ClaimParams, actor transaction.Actor) (*transaction.Transaction, error) {
				gotActor = actor
				return reservedTransaction(t, actor), nil
			},
		}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", claimBody(t))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "minted-token", w.Header().Get(middleware.SessionTokenHeader))
		assert.Equal(t, "guest-9", gotActor.ID)
		assert.True(t, gotActor.Guest)
	})

	t.Run("bearer token attributes the registered user", func(t *testing.T) {
		var gotActor transaction.Actor
		cmds := &fakeTransactionCommands{
			claim: func(_ commands.ClaimParams, actor transaction.Actor) (*transaction.Transaction, error) {
				gotActor = actor
				return reservedTransaction(t, actor), nil
			},
		}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", claimBody(t))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-42"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get(middleware.SessionTokenHeader))
		assert.Equal(t, "user-42", gotActor.ID)
		assert.False(t, gotActor.Guest)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		cmds := &fakeTransactionCommands{}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", claimBody(t))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"wishlist not found", commands.ErrWishlistNotFound, http.StatusNotFound},
			{"item not found", commands.ErrItemNotFound, http.StatusNotFound},
			{"insufficient quantity", commands.ErrInsufficientQuantity, http.StatusConflict},
			{"registration required", commands.ErrRegistrationRequired, http.StatusForbidden},
			{"domain validation", commands.ErrDomainValidation, http.StatusUnprocessableEntity},
			{"unexpected", assert.AnError, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cmds := &fakeTransactionCommands{
					claim: func(commands.ClaimParams, transaction.Actor) (*transaction.Transaction, error) {
						return nil, tt.err
					},
				}
				router := newTransactionRouter(cmds, minter)

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/api/transactions", claimBody(t))
				req.Header.Set("Content-Type", "application/json")
				router.ServeHTTP(w, req)

				assert.Equal(t, tt.expectCode, w.Code)
			})
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		cmds := &fakeTransactionCommands{}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFinalizeClaim(t *testing.T) {
	minter := &fakeMinter{session: rowstore.Session{
		Token:  "minted-token",
		UserID: "guest-9",
		Guest:  true,
	}}

	t.Run("release succeeds for the holder", func(t *testing.T) {
		actor := transaction.Actor{ID: "guest-9", Guest: true}
		tx := reservedTransaction(t, actor)
		require.NoError(t, tx.CancelByUser(time.Date(2025, 6, 21, 8, 0, 0, 0, time.UTC)))

		cmds := &fakeTransactionCommands{
			finalize: func(id uuid.UUID, got transaction.Actor) (*transaction.Transaction, error) {
				assert.Equal(t, tx.ID(), id)
				assert.Equal(t, actor, got)
				return tx, nil
			},
		}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/"+tx.ID().String()+"/release", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cancelled_by_user")
	})

	t.Run("invalid id format", func(t *testing.T) {
		cmds := &fakeTransactionCommands{}
		router := newTransactionRouter(cmds, minter)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/not-a-uuid/purchase", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"not found", commands.ErrTransactionNotFound, http.StatusNotFound},
			{"not the holder", commands.ErrNotTransactionHolder, http.StatusForbidden},
			{"already finalized", commands.ErrAlreadyFinalized, http.StatusConflict},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cmds := &fakeTransactionCommands{
					finalize: func(uuid.UUID, transaction.Actor) (*transaction.Transaction, error) {
						return nil, tt.err
					},
				}
				router := newTransactionRouter(cmds, minter)

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/api/transactions/"+uuid.NewString()+"/purchase", nil)
				router.ServeHTTP(w, req)

				assert.Equal(t, tt.expectCode, w.Code)
			})
		}
	})

	t.Run("session service unavailable", func(t *testing.T) {
		cmds := &fakeTransactionCommands{}
		router := newTransactionRouter(cmds, &fakeMinter{err: assert.AnError})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/"+uuid.NewString()+"/purchase", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
