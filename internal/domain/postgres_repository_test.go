package domain

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	ctx := context.Background()

	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = db.ExecContext(ctx, `TRUNCATE properties`)
	require.NoError(t, err)

	in := SampleProperties()
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestOpenPostgres_EmptyDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	require.Error(t, err)
}
