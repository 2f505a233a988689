package stats

import (
	"strings"

	"github.com/kapu/chess-history-go/pkg/gamedto"
)

// Compute reduces a game list into win/loss/draw and per-color counts for
// the given username. Pure function, no I/O.
//
// Any result other than "1-0" or "0-1" counts as a draw, including results
// a platform reports in its own vocabulary ("win", "unknown", ...). The
// win/loss side is decided by matching username against the game's White
// field, independently of UserColor.
func Compute(games []*gamedto.CanonicalGame, username string) gamedto.GameStats {
	stats := gamedto.GameStats{Total: len(games)}

	for _, g := range games {
		switch g.UserColor {
		case gamedto.ColorWhite:
			stats.AsWhite++
		case gamedto.ColorBlack:
			stats.AsBlack++
		}

		isWhite := strings.EqualFold(g.White, username)
		switch g.Result {
		case "1-0":
			if isWhite {
				stats.Wins++
			} else {
				stats.Losses++
			}
		case "0-1":
			if isWhite {
				stats.Losses++
			} else {
				stats.Wins++
			}
		default:
			stats.Draws++
		}
	}

	return stats
}
