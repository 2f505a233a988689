package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/chess-history-go/internal/chesscom"
	"github.com/kapu/chess-history-go/internal/lichess"
	"github.com/kapu/chess-history-go/pkg/gamedto"
)

// Request carries the parameters of one history fetch. AccessToken is only
// meaningful for Lichess and is ignored for Chess.com.
type Request struct {
	Platform    gamedto.Platform
	Username    string
	Color       gamedto.Color
	AccessToken string
}

// Service is the unified facade over the platform adapters.
type Service struct {
	chesscom *chesscom.Adapter
	lichess  *lichess.Adapter
}

func NewService(cc *chesscom.Adapter, li *lichess.Adapter) *Service {
	return &Service{chesscom: cc, lichess: li}
}

// FetchGames validates the request and dispatches to the adapter matching the
// platform tag. All validation failures are reported before any network call.
func (s *Service) FetchGames(ctx context.Context, req Request) ([]*gamedto.CanonicalGame, error) {
	if req.Platform == "" {
		return nil, gamedto.NewError(gamedto.ErrValidation, "platform is required")
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, gamedto.NewError(gamedto.ErrValidation, "username is required")
	}
	switch req.Color {
	case gamedto.ColorWhite, gamedto.ColorBlack, gamedto.ColorBoth:
	case "":
		return nil, gamedto.NewError(gamedto.ErrValidation, "color is required")
	default:
		return nil, gamedto.NewError(gamedto.ErrValidation,
			fmt.Sprintf("color must be white, black or both, got %s", req.Color))
	}

	username := strings.TrimSpace(req.Username)

	switch req.Platform {
	case gamedto.PlatformChessCom:
		return s.chesscom.FetchGames(ctx, username, req.Color)
	case gamedto.PlatformLichess:
		return s.lichess.FetchGames(ctx, username, req.Color, req.AccessToken)
	default:
		return nil, gamedto.NewError(gamedto.ErrUnsupportedPlatform,
			fmt.Sprintf("unsupported platform: %s", req.Platform))
	}
}
