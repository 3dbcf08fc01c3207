//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/db"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/ledger"
)

func TestLedgerAppendClosesOpenEntry(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameID := uuid.New()
	ctx := context.Background()

	first, err := svc.Append(ctx, gameID, 1, nil, 0)
	require.NoError(t, err)
	assert.True(t, first.IsOpen())

	second, err := svc.Append(ctx, gameID, 2, nil, 12.5)
	require.NoError(t, err)

	entries, err := svc.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The first entry closed exactly where the second begins
	require.NotNil(t, entries[0].EndSeconds)
	assert.Equal(t, 12.5, *entries[0].EndSeconds)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.True(t, entries[1].IsOpen())
}

func TestLedgerAtMostOneOpenEntry(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameID := uuid.New()
	ctx := context.Background()

	for i, start := range []float64{0, 5, 17.25, 30} {
		lane := i%2 + 1
		_, err := svc.Append(ctx, gameID, lane, nil, start)
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	open := 0
	for _, e := range entries {
		if e.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open, "exactly one entry may be open")

	current, err := svc.Open(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, current.StartSeconds)
}

func TestLedgerListOrderedByStart(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameID := uuid.New()
	ctx := context.Background()

	for _, start := range []float64{0, 42, 7.5} {
		_, err := svc.Append(ctx, gameID, 1, nil, start)
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 0.0, entries[0].StartSeconds)
	assert.Equal(t, 7.5, entries[1].StartSeconds)
	assert.Equal(t, 42.0, entries[2].StartSeconds)
}

func TestLedgerIsolatedPerGame(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameA := uuid.New()
	gameB := uuid.New()
	ctx := context.Background()

	_, err := svc.Append(ctx, gameA, 1, nil, 0)
	require.NoError(t, err)
	_, err = svc.Append(ctx, gameB, 2, nil, 3)
	require.NoError(t, err)
	_, err = svc.Append(ctx, gameA, 2, nil, 10)
	require.NoError(t, err)

	// Game B's open entry is untouched by game A's appends
	open, err := svc.Open(ctx, gameB)
	require.NoError(t, err)
	assert.True(t, open.IsOpen())
	assert.Equal(t, 3.0, open.StartSeconds)
}

func TestLedgerClear(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameID := uuid.New()
	ctx := context.Background()

	for _, start := range []float64{0, 10, 20} {
		_, err := svc.Append(ctx, gameID, 1, nil, start)
		require.NoError(t, err)
	}

	deleted, err := svc.Clear(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	entries, err := svc.List(ctx, gameID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Open(ctx, gameID)
	assert.True(t, db.IsNotFound(err))
}

func TestLedgerRecordSwitchWithClip(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	svc := ledger.NewService(repos)
	gameID := uuid.New()
	ctx := context.Background()

	clip := createTestClip(t, repos, gameID, 1, 0, 60000)

	clipID := clip.ID
	require.NoError(t, svc.RecordSwitch(ctx, gameID, 1, &clipID, 5.0))
	require.NoError(t, svc.RecordSwitch(ctx, gameID, 2, nil, 9.25))

	entries, err := svc.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].ClipID)
	assert.Equal(t, clip.ID, *entries[0].ClipID)
	assert.Nil(t, entries[1].ClipID, "gap selections carry no clip")
}
