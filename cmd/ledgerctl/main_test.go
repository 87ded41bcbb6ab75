package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db/file"
	"github.com/bountyboard/points-ledger/pkg/logger"
)

func setup(t *testing.T) string {
	t.Helper()
	logger.Reset()
	t.Cleanup(logger.Reset)

	dir := t.TempDir()
	t.Setenv("TELEGRAM_MODE", "off")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("DATA_FILE", filepath.Join(dir, "points_data.json"))
	return dir
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"hash-password", "--cost", "4"}, strings.NewReader("hunter2\n"), &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestHashPassword_Empty(t *testing.T) {
	assert.Error(t, run([]string{"hash-password"}, strings.NewReader("\n"), &bytes.Buffer{}))
}

func TestImportExportTop(t *testing.T) {
	dir := setup(t)
	ctx := context.Background()

	src := filepath.Join(dir, "seed.json")
	require.NoError(t, file.NewStore(src).Save(ctx, domain.Ledger{
		1: {DisplayName: "@a", Balance: 5},
		2: {DisplayName: "@b", Balance: 9},
	}))

	var out bytes.Buffer
	require.NoError(t, run([]string{"import", "--in", src}, nil, &out))
	assert.Contains(t, out.String(), "wrote 2 profiles")

	err := run([]string{"import", "--in", src}, nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "--force")

	out.Reset()
	require.NoError(t, run([]string{"export"}, nil, &out))
	assert.Contains(t, out.String(), `"username": "@b"`)

	out.Reset()
	require.NoError(t, run([]string{"top", "-n", "1"}, nil, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "@b")
}

func TestMigrateBetweenFiles(t *testing.T) {
	dir := setup(t)
	ctx := context.Background()

	from := filepath.Join(dir, "from.json")
	to := filepath.Join(dir, "to.json")
	require.NoError(t, file.NewStore(from).Save(ctx, domain.Ledger{3: {DisplayName: "c", Balance: 1}}))

	require.NoError(t, run([]string{"migrate", "--from", "file", "--from-file", from, "--to", "file", "--to-file", to}, nil, &bytes.Buffer{}))

	l, err := file.NewStore(to).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Ledger{3: {DisplayName: "c", Balance: 1}}, l)
}

func TestUnknownCommand(t *testing.T) {
	setup(t)
	assert.Error(t, run([]string{"frobnicate"}, nil, &bytes.Buffer{}))
	assert.Error(t, run(nil, nil, &bytes.Buffer{}))
}
