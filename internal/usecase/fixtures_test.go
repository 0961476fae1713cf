package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

var fixedNow = time.Date(2025, 11, 15, 18, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func slateGames() []game.Context {
	start := time.Date(2025, 11, 16, 0, 30, 0, 0, time.UTC)
	return []game.Context{
		game.New("0022400123", "BOS", "NYK", -5.5, 226, start),
		game.New("0022400124", "DEN", "LAL", -3, 233, start),
	}
}

func slateLines() []player.Line {
	var lines []player.Line
	for _, code := range []string{"BOS", "NYK", "DEN", "LAL"} {
		lines = append(lines,
			player.Line{DisplayName: code + " Star", Team: code, Position: "SF", IsStarter: true, Stats: player.Stats{Min: 35, Pts: 27, Reb: 8, Ast: 5, ThreePM: 3, Stl: 1.1, Blk: 0.6}},
			player.Line{DisplayName: code + " Guard", Team: code, Position: "PG", IsStarter: true, Stats: player.Stats{Min: 33, Pts: 19, Reb: 4, Ast: 8, ThreePM: 2.2, Stl: 1.4, Blk: 0.3}},
			player.Line{DisplayName: code + " Big", Team: code, Position: "C", IsStarter: true, Stats: player.Stats{Min: 30, Pts: 14, Reb: 11, Ast: 2, Blk: 1.6}},
			player.Line{DisplayName: code + " Wing", Team: code, Position: "SG", IsStarter: true, Stats: player.Stats{Min: 29, Pts: 13, Reb: 5, Ast: 3, ThreePM: 2.5}},
			player.Line{DisplayName: code + " Sixth", Team: code, Position: "SG", Stats: player.Stats{Min: 24, Pts: 12, Reb: 3, Ast: 4}},
			player.Line{DisplayName: code + " Deep", Team: code, Position: "PF", Stats: player.Stats{Min: 9, Pts: 3, Reb: 2}},
		)
	}
	return lines
}

func boxScore(completed bool, athletes string) []byte {
	return []byte(fmt.Sprintf(`{
		"header": {"competitions": [{"status": {"type": {"completed": %t}}}]},
		"boxscore": {"players": [{
			"team": {"abbreviation": "BOS"},
			"statistics": [{
				"labels": ["MIN", "FG", "3PT", "FT", "REB", "AST", "TO", "STL", "BLK", "PTS"],
				"athletes": [%s]
			}]
		}]}
	}`, completed, athletes))
}

const doeBox = `{"athlete": {"displayName": "J. Doe"}, "stats": ["34", "8-15", "3-7", "3-4", "6", "5", "2", "1", "0", "22"]}`

// flakyStore fails the next failGets reads and passes everything else through.
type flakyStore struct {
	kvstore.Store
	failGets int
	puts     int
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failGets > 0 {
		s.failGets--
		return nil, false, errors.New("read tcp 10.0.0.5:5432: connection reset by peer")
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	s.puts++
	return s.Store.Put(ctx, key, value)
}
