package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpicker/internal/contracts"
)

func TestPostgresSource_RoundTrip(t *testing.T) {
	// Skip if DATABASE_URL is not set
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	src := NewPostgresSource(pool)
	require.NoError(t, src.Migrate(ctx))

	want := loadEmbedded(t).Instruments()
	want[7].ROE = contracts.None()
	require.NoError(t, src.Replace(ctx, want))

	c, err := Load(ctx, src)
	require.NoError(t, err)

	assert.Equal(t, "postgres", c.Source())
	assert.Equal(t, want, c.Instruments())
}
