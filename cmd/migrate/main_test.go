package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), append([]string{"-database-url", dsn}, args...), &out, logger)
	return out.String(), err
}

func TestRun_Lifecycle(t *testing.T) {
	dsn := "sqlite://file:" + filepath.Join(t.TempDir(), "articles.db")

	out, err := runCmd(t, dsn, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")

	_, err = runCmd(t, dsn, "up")
	require.NoError(t, err)

	out, err = runCmd(t, dsn, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")

	out, err = runCmd(t, dsn, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 10 user(s)\n", out)

	out, err = runCmd(t, dsn, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 0 user(s)\n", out)

	_, err = runCmd(t, dsn, "down", "-to", "0")
	require.NoError(t, err)

	out, err = runCmd(t, dsn, "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "applied")
}

func TestRun_Usage(t *testing.T) {
	dsn := "sqlite://file:" + filepath.Join(t.TempDir(), "articles.db")

	_, err := runCmd(t, dsn)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, dsn, "sideways")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCmd(t, dsn, "down", "-to", "x")
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_BadDatabaseURL(t *testing.T) {
	_, err := runCmd(t, "mysql://localhost/articles", "up")
	assert.ErrorContains(t, err, "unsupported DATABASE_URL scheme")
}
