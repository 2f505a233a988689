package gamedto

// Platform identifies a supported chess platform.
type Platform string

const (
	PlatformChessCom Platform = "chesscom"
	PlatformLichess  Platform = "lichess"
)

// Color is a side filter for a history fetch. Adapters only ever assign
// ColorWhite or ColorBlack to a game's UserColor; ColorBoth is request-only.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
	ColorBoth  Color = "both"
)

// CanonicalGame is the normalized, platform-agnostic record of one played game.
//
// Timestamp units are intentionally divergent: Chess.com reports EndTime in
// epoch seconds, Lichess reports CreatedAt in epoch milliseconds. Only one of
// the two is populated per game and they must not be compared across platforms.
type CanonicalGame struct {
	ID          string
	URL         string
	PGN         string
	White       string
	Black       string
	WhiteRating int
	BlackRating int
	Result      string
	Status      string // Lichess only
	TimeControl string
	EndTime     int64 // Chess.com only, epoch seconds
	CreatedAt   int64 // Lichess only, epoch milliseconds
	UserColor   Color
	Moves       []string
	FEN         string // Chess.com only, final position
}

// GameStats is the win/loss/draw reduction of a game list for one user.
// Wins+Losses+Draws == Total and AsWhite+AsBlack == Total always hold.
type GameStats struct {
	Total   int
	Wins    int
	Losses  int
	Draws   int
	AsWhite int
	AsBlack int
}
