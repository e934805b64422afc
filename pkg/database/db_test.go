package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbehnke/m17-nexus/pkg/logger"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReceptionRepository_CreateAndRecent(t *testing.T) {
	repo := NewReceptionRepository(newTestDB(t).GetDB())

	for i := 0; i < 3; i++ {
		err := repo.Create(&Reception{
			Src:       "N0CALL",
			Dst:       "@ALL",
			TypeField: 0x0005,
			CAN:       3,
			HeardAt:   time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	recs, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "N0CALL", recs[0].Src)
	assert.True(t, recs[0].HeardAt.After(recs[1].HeardAt) ||
		recs[0].HeardAt.Equal(recs[1].HeardAt))
}

func TestReceptionRepository_SignatureResult(t *testing.T) {
	repo := NewReceptionRepository(newTestDB(t).GetDB())

	rec := &Reception{Src: "AB1CDE", Dst: "N0CALL", Signed: true}
	require.NoError(t, repo.Create(rec))
	require.NotZero(t, rec.ID)

	require.NoError(t, repo.SetSignatureResult(rec.ID, true))

	recs, err := repo.Recent(1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].SigValid)
	assert.True(t, *recs[0].SigValid)
}

func TestReceptionRepository_CountBySource(t *testing.T) {
	repo := NewReceptionRepository(newTestDB(t).GetDB())

	require.NoError(t, repo.Create(&Reception{Src: "N0CALL", Dst: "@ALL"}))
	require.NoError(t, repo.Create(&Reception{Src: "N0CALL", Dst: "@ALL"}))
	require.NoError(t, repo.Create(&Reception{Src: "AB1CDE", Dst: "@ALL"}))

	n, err := repo.CountBySource("N0CALL")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
