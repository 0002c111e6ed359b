package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepository_Record(t *testing.T) {
	ctx, st := suite.New(t)

	resultRepo := NewResultRepository(st.Storage)

	// Given: a finished game
	result := &entity.GameResult{
		RoomID:     "r1",
		Winner:     entity.SymbolX,
		Board:      [9]string{"X", "X", "X", "O", "O", "", "", "", ""},
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	// When: Record is called
	err := resultRepo.Record(ctx, result)

	// Then: no error should be returned and the result is listed back
	require.NoError(t, err)

	results, err := resultRepo.ListByRoom(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, result.Winner, results[0].Winner)
	assert.Equal(t, result.Board, results[0].Board)
}

func TestResultRepository_ListByRoom(t *testing.T) {
	t.Run("ListByRoom_NewestFirst", func(t *testing.T) {
		ctx, st := suite.New(t)

		resultRepo := NewResultRepository(st.Storage)

		// Given: two recorded games in the same room
		first := &entity.GameResult{RoomID: "r1", Winner: entity.SymbolX}
		second := &entity.GameResult{RoomID: "r1", Winner: entity.WinnerDraw}

		require.NoError(t, resultRepo.Record(ctx, first))
		require.NoError(t, resultRepo.Record(ctx, second))

		// When: listing the room's history
		results, err := resultRepo.ListByRoom(ctx, "r1")

		// Then: the newest result comes first
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, entity.WinnerDraw, results[0].Winner)
		assert.Equal(t, entity.SymbolX, results[1].Winner)
	})

	t.Run("ListByRoom_EmptyRoom", func(t *testing.T) {
		ctx, st := suite.New(t)

		resultRepo := NewResultRepository(st.Storage)

		// When: listing a room with no history
		results, err := resultRepo.ListByRoom(ctx, "missing")

		// Then: an empty slice is returned, not an error
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
