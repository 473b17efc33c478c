//go:build integration

package ens_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enspass/internal/ens"
	"enspass/pkg/testutil/containers"
)

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	cache := ens.NewRedisCache(rc.Client)
	ctx := context.Background()

	marked, err := cache.IsMarked(ctx, "taken.eth")
	require.NoError(t, err)
	assert.False(t, marked)

	require.NoError(t, cache.Mark(ctx, "taken.eth", time.Minute))

	marked, err = cache.IsMarked(ctx, "taken.eth")
	require.NoError(t, err)
	assert.True(t, marked)

	// Entries expire with their TTL.
	require.NoError(t, cache.Mark(ctx, "brief.eth", 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)
	marked, err = cache.IsMarked(ctx, "brief.eth")
	require.NoError(t, err)
	assert.False(t, marked)
}
