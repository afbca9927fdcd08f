package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "rolls.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRolls(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	loaded := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	portra, err := db.CreateRoll(ctx, utils.TFilm{Name: " Portra 400 ", ISO: 400, Camera: "Nikon FM2", LoadedAt: loaded})
	require.NoError(t, err)
	assert.NotZero(t, portra.ID)
	assert.Equal(t, "Portra 400", portra.Name)

	hp5, err := db.CreateRoll(ctx, utils.TFilm{Name: "HP5", ISO: 1600, LoadedAt: loaded.Add(24 * time.Hour)})
	require.NoError(t, err)

	got, err := db.GetRoll(ctx, portra.ID)
	require.NoError(t, err)
	assert.Equal(t, portra.Name, got.Name)
	assert.Equal(t, 400, got.ISO)
	assert.Equal(t, "Nikon FM2", got.Camera)
	assert.True(t, loaded.Equal(got.LoadedAt))

	rolls, err := db.ListRolls(ctx)
	require.NoError(t, err)
	require.Len(t, rolls, 2)
	assert.Equal(t, hp5.ID, rolls[0].ID, "most recent first")
	assert.Equal(t, "", rolls[0].Camera)

	require.NoError(t, db.DeleteRoll(ctx, hp5.ID))
	_, err = db.GetRoll(ctx, hp5.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteRoll(ctx, hp5.ID), ErrNotFound)
}

func TestCreateRollValidation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tests := []struct {
		name string
		roll utils.TFilm
	}{
		{name: "empty name", roll: utils.TFilm{Name: "  ", ISO: 400}},
		{name: "zero iso", roll: utils.TFilm{Name: "Ektar"}},
		{name: "negative iso", roll: utils.TFilm{Name: "Ektar", ISO: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.CreateRoll(ctx, tt.roll)
			assert.ErrorIs(t, err, ErrInvalidRoll)
		})
	}
}

func TestFrames(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	roll, err := db.CreateRoll(ctx, utils.TFilm{Name: "Tri-X", ISO: 400})
	require.NoError(t, err)
	other, err := db.CreateRoll(ctx, utils.TFilm{Name: "Ektar", ISO: 100})
	require.NoError(t, err)

	first, err := db.AddFrame(ctx, utils.TFrame{RollID: roll.ID, Number: 12, Aperture: "8", Shutter: "1/250", ISO: 400, EV: 14, Note: "harbour"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number, "numbers are assigned by the store")
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := db.AddFrame(ctx, utils.TFrame{RollID: roll.ID, Aperture: "2.8", Shutter: "1/60", ISO: 400, EV: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	onOther, err := db.AddFrame(ctx, utils.TFrame{RollID: other.ID, Aperture: "16", Shutter: "1/125", ISO: 100, EV: 15})
	require.NoError(t, err)
	assert.Equal(t, 1, onOther.Number, "numbering is per roll")

	frames, err := db.ListFrames(ctx, roll.ID)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "8", frames[0].Aperture)
	assert.Equal(t, "1/250", frames[0].Shutter)
	assert.Equal(t, "harbour", frames[0].Note)
	assert.InDelta(t, 14, frames[0].EV, 1e-12)
	assert.Equal(t, "", frames[1].Note)

	_, err = db.AddFrame(ctx, utils.TFrame{RollID: 9999, Aperture: "8", Shutter: "1/250", ISO: 400})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.DeleteRoll(ctx, roll.ID))
	frames, err = db.ListFrames(ctx, roll.ID)
	require.NoError(t, err)
	assert.Empty(t, frames, "frames go with their roll")

	frames, err = db.ListFrames(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rolls.db")

	db, err := Open(path)
	require.NoError(t, err)
	roll, err := db.CreateRoll(ctx, utils.TFilm{Name: "Gold 200", ISO: 200})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.GetRoll(ctx, roll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold 200", got.Name)
}

func TestCloseNil(t *testing.T) {
	var db *DB
	assert.NoError(t, db.Close())
}
