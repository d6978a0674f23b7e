package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/storage"
)

func seedWishlist(t *testing.T, path, raw string) {
	t.Helper()

	s, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), collection.KeyWishlist, []byte(raw)))
}
