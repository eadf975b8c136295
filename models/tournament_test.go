package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentFilter_Offset(t *testing.T) {
	cases := []struct {
		name   string
		filter TournamentFilter
		want   int
	}{
		{"no paging", TournamentFilter{Page: 3}, 0},
		{"first page", TournamentFilter{Page: 1, Limit: 10}, 0},
		{"page zero", TournamentFilter{Page: 0, Limit: 10}, 0},
		{"third page", TournamentFilter{Page: 3, Limit: 10}, 20},
		{"huge page saturates", TournamentFilter{Page: 4611686018427387904, Limit: 100}, math.MaxInt},
		{"max page", TournamentFilter{Page: math.MaxInt, Limit: 2}, math.MaxInt},
		{"largest exact page", TournamentFilter{Page: math.MaxInt/100 + 1, Limit: 100}, math.MaxInt / 100 * 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Offset()
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestTournamentPatch_Columns(t *testing.T) {
	prize := 500.0
	fav := uint(3)

	assert.Equal(t, map[string]interface{}{"prize_money": 500.0}, TournamentPatch{PrizeMoney: &prize}.Columns())
	assert.Equal(t, map[string]interface{}{"favorite_player_id": uint(3)}, TournamentPatch{FavoritePlayerID: &fav}.Columns())
	assert.Equal(t, map[string]interface{}{"favorite_player_id": nil},
		TournamentPatch{FavoritePlayerID: &fav, ClearFavoritePlayer: true}.Columns())

	assert.True(t, TournamentPatch{}.Empty())
	assert.False(t, TournamentPatch{ClearFavoritePlayer: true}.Empty())
}
