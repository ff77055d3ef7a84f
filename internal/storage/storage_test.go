package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixfunds/finance-api/internal/config"
	"github.com/nixfunds/finance-api/internal/logging"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}

	stores, err := Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)

	assert.NotNil(t, stores.Users)
	assert.NotNil(t, stores.Transactions)
	assert.NoError(t, stores.Migrate(ctx))
	assert.NoError(t, stores.Close(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}

	_, err := Open(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}
