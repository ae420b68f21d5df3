package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_PingAndClose(t *testing.T) {
	ctx := context.Background()
	db := &Database{DB: setupTestDB(t)}

	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, db.Close())
	assert.Error(t, db.PingContext(ctx))
}
