//go:build unit

package rowstore_test

import (
	"context"
	"net/http"
	"testing"

	"wishlink/internal/infra"
	"wishlink/internal/infra/rowstore"
	"wishlink/internal/pkg/config"
	"wishlink/tests/common/providertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

func newClient(t *testing.T) (*rowstore.Client, *providertest.Server) {
	t.Helper()
	srv := providertest.New(t)
	cfg := config.NewTestConfig()
	cfg.Provider.BaseURL = srv.URL()
	return rowstore.New(cfg.Provider), srv
}

func TestClient_RowLifecycle(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	row := testRow{ID: "r1", Name: "first", Rank: 1}
	require.NoError(t, client.Upsert(ctx, rowstore.CollectionUsers, row.ID, row))

	// The configured prefix is part of the provider-side collection name.
	_, ok := srv.Row("test_users", "r1")
	require.True(t, ok)

	var got testRow
	require.NoError(t, client.Get(ctx, rowstore.CollectionUsers, "r1", &got))
	assert.Equal(t, row, got)

	require.NoError(t, client.Update(ctx, rowstore.CollectionUsers, "r1", map[string]any{"rank": 2}))
	require.NoError(t, client.Get(ctx, rowstore.CollectionUsers, "r1", &got))
	assert.Equal(t, 2, got.Rank)
	assert.Equal(t, "first", got.Name)

	require.NoError(t, client.Delete(ctx, rowstore.CollectionUsers, "r1"))
	err := client.Get(ctx, rowstore.CollectionUsers, "r1", &got)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestClient_List(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	srv.Seed(t, "test_users", "a", testRow{ID: "a", Name: "match", Rank: 2})
	srv.Seed(t, "test_users", "b", testRow{ID: "b", Name: "match", Rank: 1})
	srv.Seed(t, "test_users", "c", testRow{ID: "c", Name: "other", Rank: 3})

	var rows []testRow
	err := client.List(ctx, rowstore.CollectionUsers, rowstore.Query{
		Filters: map[string]string{"name": "match"},
		OrderBy: "rank",
	}, &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, "a", rows[1].ID)

	var limited []testRow
	err = client.List(ctx, rowstore.CollectionUsers, rowstore.Query{
		Filters: map[string]string{"name": "match"},
		OrderBy: "rank",
		Limit:   1,
		Offset:  1,
	}, &limited)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "a", limited[0].ID)
}

func TestClient_ErrorKinds(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		status int
		kind   infra.RepositoryErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, infra.KindUnauthorized},
		{"forbidden", http.StatusForbidden, infra.KindUnauthorized},
		{"conflict", http.StatusConflict, infra.KindConflict},
		{"server error", http.StatusInternalServerError, infra.KindProviderFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.Seed(t, "test_users", "r1", testRow{ID: "r1"})
			srv.FailNext(http.MethodGet, "test_users", 1, tt.status)

			var got testRow
			err := client.Get(ctx, rowstore.CollectionUsers, "r1", &got)
			assert.True(t, infra.IsKind(err, tt.kind), "want kind %s, got %v", tt.kind, err)
		})
	}

	t.Run("update on an absent row", func(t *testing.T) {
		err := client.Update(ctx, rowstore.CollectionUsers, "missing", map[string]any{"rank": 9})
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
