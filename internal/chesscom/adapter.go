package chesscom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/internal/obslog"
	"github.com/kapu/chess-history-go/pkg/gamedto"
)

// Adapter fetches and normalizes game history from the public Chess.com API.
// Games arrive bucketed into monthly archives; only the most recent months
// are consulted.
type Adapter struct {
	client       *httpfast.Client
	baseURL      string
	recentMonths int
	maxGames     int
}

func NewAdapter(client *httpfast.Client, baseURL string, recentMonths, maxGames int) *Adapter {
	if recentMonths <= 0 {
		recentMonths = 6
	}
	if maxGames <= 0 {
		maxGames = 200
	}
	return &Adapter{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		recentMonths: recentMonths,
		maxGames:     maxGames,
	}
}

// FetchGames returns the user's recent games filtered by color, normalized
// into canonical form. Games whose PGN fails to replay are dropped.
func (a *Adapter) FetchGames(ctx context.Context, username string, color gamedto.Color) ([]*gamedto.CanonicalGame, error) {
	indexURL := fmt.Sprintf("%s/player/%s/games/archives", a.baseURL, username)
	var index archiveIndex
	if err := a.client.GetJSON(ctx, indexURL, nil, &index); err != nil {
		return nil, classify(err, username)
	}
	if len(index.Archives) == 0 {
		return nil, gamedto.NewError(gamedto.ErrNoGamesFound, "no games found for this user")
	}

	recent := index.Archives
	if len(recent) > a.recentMonths {
		recent = recent[len(recent)-a.recentMonths:]
	}

	// One slot per archive keeps index order; a failed month degrades to an
	// empty list instead of cancelling the joint fetch.
	batches := make([][]apiGame, len(recent))
	g, gctx := errgroup.WithContext(ctx)
	for i, archiveURL := range recent {
		g.Go(func() error {
			var payload archivePayload
			if err := a.client.GetJSON(gctx, archiveURL, nil, &payload); err != nil {
				obslog.L().Warn("chesscom: archive fetch failed",
					zap.String("url", archiveURL), zap.Error(err))
				return nil
			}
			batches[i] = payload.Games
			return nil
		})
	}
	_ = g.Wait()

	var all []apiGame
	for _, b := range batches {
		all = append(all, b...)
	}
	if len(all) == 0 {
		return nil, gamedto.NewError(gamedto.ErrNoGamesFound, "no games found for this user")
	}

	filtered := filterByColor(all, username, color)
	if len(filtered) > a.maxGames {
		filtered = filtered[len(filtered)-a.maxGames:]
	}

	games := make([]*gamedto.CanonicalGame, 0, len(filtered))
	for i := range filtered {
		cg, err := parseGame(&filtered[i], username)
		if err != nil {
			obslog.L().Debug("chesscom: dropped unparseable game",
				zap.String("url", filtered[i].URL), zap.Error(err))
			continue
		}
		games = append(games, cg)
	}
	return games, nil
}

func filterByColor(games []apiGame, username string, color gamedto.Color) []apiGame {
	if color == gamedto.ColorBoth {
		return games
	}
	out := make([]apiGame, 0, len(games))
	for _, g := range games {
		switch color {
		case gamedto.ColorWhite:
			if strings.EqualFold(g.White.Username, username) {
				out = append(out, g)
			}
		case gamedto.ColorBlack:
			if strings.EqualFold(g.Black.Username, username) {
				out = append(out, g)
			}
		}
	}
	return out
}

func parseGame(src *apiGame, username string) (*gamedto.CanonicalGame, error) {
	game := nchess.NewGame()
	if strings.TrimSpace(src.PGN) != "" {
		opt, err := nchess.PGN(strings.NewReader(src.PGN))
		if err != nil {
			return nil, fmt.Errorf("parse pgn: %w", err)
		}
		game = nchess.NewGame(opt)
	}

	id := src.UUID
	if id == "" {
		id = src.URL
	}
	white := src.White.Username
	if white == "" {
		white = "Unknown"
	}
	black := src.Black.Username
	if black == "" {
		black = "Unknown"
	}
	result := src.White.Result
	if result == "" {
		result = "unknown"
	}
	timeControl := src.TimeControl
	if timeControl == "" {
		timeControl = "unknown"
	}
	endTime := src.EndTime
	if endTime == 0 {
		endTime = time.Now().Unix()
	}
	userColor := gamedto.ColorBlack
	if strings.EqualFold(src.White.Username, username) {
		userColor = gamedto.ColorWhite
	}

	return &gamedto.CanonicalGame{
		ID:          id,
		URL:         src.URL,
		PGN:         src.PGN,
		White:       white,
		Black:       black,
		WhiteRating: src.White.Rating,
		BlackRating: src.Black.Rating,
		Result:      result,
		TimeControl: timeControl,
		EndTime:     endTime,
		UserColor:   userColor,
		Moves:       sanHistory(game),
		FEN:         game.FEN(),
	}, nil
}

func sanHistory(game *nchess.Game) []string {
	moves := game.Moves()
	positions := game.Positions()
	notation := nchess.AlgebraicNotation{}
	san := make([]string, 0, len(moves))
	for i, mv := range moves {
		if i < len(positions) {
			san = append(san, notation.Encode(positions[i], mv))
		}
	}
	return san
}

func classify(err error, username string) error {
	var de *gamedto.DomainError
	if errors.As(err, &de) {
		return err
	}
	var se *httpfast.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 404:
			return gamedto.WrapError(gamedto.ErrUsernameNotFound,
				fmt.Sprintf("username %s not found on Chess.com", username), err)
		case 429:
			return gamedto.WrapError(gamedto.ErrRateLimited,
				"API rate limit exceeded, please wait and try again", err)
		}
	}
	return gamedto.WrapError(gamedto.ErrNetwork,
		"network error, please check your connection", err)
}
