package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/internal/obslog"
	"github.com/kapu/chess-history-go/pkg/gamedto"
)

// Adapter fetches and normalizes game history from the Lichess API. The
// export endpoint streams one JSON game per line; a single request covers
// the whole window.
type Adapter struct {
	client   *httpfast.Client
	baseURL  string
	maxGames int
}

func NewAdapter(client *httpfast.Client, baseURL string, maxGames int) *Adapter {
	if maxGames <= 0 {
		maxGames = 200
	}
	return &Adapter{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxGames: maxGames,
	}
}

// FetchGames returns the user's recent games in canonical form. An access
// token upgrades the request to authenticated rate limits; without one the
// public limits apply. Malformed ndjson lines are skipped, never fatal.
func (a *Adapter) FetchGames(ctx context.Context, username string, color gamedto.Color, accessToken string) ([]*gamedto.CanonicalGame, error) {
	endpoint := fmt.Sprintf("%s/games/user/%s?max=%d&pgnInJson=false&clocks=false&evals=false&opening=false",
		a.baseURL, username, a.maxGames)
	// The color parameter is omitted entirely for "both" so the server
	// returns games from either side.
	if color == gamedto.ColorWhite || color == gamedto.ColorBlack {
		endpoint += "&color=" + string(color)
	}

	headers := map[string]string{"Accept": "application/x-ndjson"}
	if accessToken != "" {
		headers["Authorization"] = "Bearer " + accessToken
	}

	body, err := a.client.GetBody(ctx, endpoint, headers)
	if err != nil {
		return nil, classify(err, username)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, gamedto.NewError(gamedto.ErrNoGamesFound, "no games found for this user")
	}

	var games []*gamedto.CanonicalGame
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var src apiGame
		if err := json.Unmarshal([]byte(line), &src); err != nil {
			obslog.L().Warn("lichess: skipped malformed ndjson line", zap.Error(err))
			continue
		}
		cg := convert(&src, username, a.permalinkBase())
		if cg == nil {
			continue
		}
		games = append(games, cg)
	}
	if len(games) == 0 {
		return nil, gamedto.NewError(gamedto.ErrNoGamesFound, "no games found for this user")
	}
	return games, nil
}

func (a *Adapter) permalinkBase() string {
	return strings.TrimSuffix(a.baseURL, "/api")
}

func convert(src *apiGame, username, permalinkBase string) *gamedto.CanonicalGame {
	if src.Players == nil {
		return nil
	}

	white := playerName(src.Players.White)
	black := playerName(src.Players.Black)

	var result string
	switch src.Winner {
	case "white":
		result = "1-0"
	case "black":
		result = "0-1"
	default:
		result = "1/2-1/2"
	}

	status := src.Status
	if status == "" {
		status = "unknown"
	}

	var initial, increment int
	if src.Clock != nil {
		initial = src.Clock.Initial
		increment = src.Clock.Increment
	}

	createdAt := src.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	userColor := gamedto.ColorBlack
	if strings.EqualFold(white, username) {
		userColor = gamedto.ColorWhite
	}

	var moves []string
	if strings.TrimSpace(src.Moves) != "" {
		moves = strings.Split(src.Moves, " ")
	}

	return &gamedto.CanonicalGame{
		ID:          src.ID,
		URL:         permalinkBase + "/" + src.ID,
		PGN:         src.PGN,
		White:       white,
		Black:       black,
		WhiteRating: src.Players.White.Rating,
		BlackRating: src.Players.Black.Rating,
		Result:      result,
		Status:      status,
		TimeControl: fmt.Sprintf("%d+%d", initial, increment),
		CreatedAt:   createdAt,
		UserColor:   userColor,
		Moves:       moves,
	}
}

func playerName(p apiPlayer) string {
	if p.User != nil {
		if p.User.Name != "" {
			return p.User.Name
		}
		if p.User.ID != "" {
			return p.User.ID
		}
	}
	return "Unknown"
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
				fmt.Sprintf("username %s not found on Lichess", username), err)
		case 429:
			return gamedto.WrapError(gamedto.ErrRateLimited,
				"API rate limit exceeded, please wait and try again", err)
		}
		return gamedto.WrapError(gamedto.ErrUnknown,
			fmt.Sprintf("unexpected HTTP status %d from Lichess", se.Code), err)
	}
	return gamedto.WrapError(gamedto.ErrNetwork,
		"network error, please check your connection", err)
}
