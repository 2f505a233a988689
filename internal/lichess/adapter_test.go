package lichess

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/pkg/gamedto"
)

const sampleGame = `{"id":"q7ZvsdUF","status":"mate","winner":"white","createdAt":1514505150384,"moves":"e4 e5 Qh5 Nc6 Bc4 Nf6 Qxf7#","clock":{"initial":300,"increment":3},"players":{"white":{"user":{"name":"bob","id":"bob"},"rating":1790},"black":{"user":{"name":"alice","id":"alice"},"rating":1810}}}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(httpfast.NewClient(), srv.URL+"/api", 200)
}

func TestFetchGamesNormalizes(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Has("color") {
			t.Errorf("color parameter should be omitted for both, got %q", r.URL.Query().Get("color"))
		}
		w.Write([]byte(sampleGame + "\n"))
	})

	games, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "tok123")
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if gotPath != "/api/games/user/bob" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAccept != "application/x-ndjson" {
		t.Fatalf("unexpected Accept header: %s", gotAccept)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("unexpected Authorization header: %s", gotAuth)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	g := games[0]
	if g.ID != "q7ZvsdUF" || g.White != "bob" || g.Black != "alice" {
		t.Fatalf("unexpected identity fields: %+v", g)
	}
	if g.Result != "1-0" || g.Status != "mate" {
		t.Fatalf("unexpected result/status: %+v", g)
	}
	if g.TimeControl != "300+3" {
		t.Fatalf("unexpected time control: %s", g.TimeControl)
	}
	if g.CreatedAt != 1514505150384 {
		t.Fatalf("unexpected createdAt: %d", g.CreatedAt)
	}
	if g.UserColor != gamedto.ColorWhite {
		t.Fatalf("unexpected user color: %s", g.UserColor)
	}
	if len(g.Moves) != 7 || g.Moves[6] != "Qxf7#" {
		t.Fatalf("unexpected moves: %v", g.Moves)
	}
	if g.WhiteRating != 1790 || g.BlackRating != 1810 {
		t.Fatalf("unexpected ratings: %+v", g)
	}
}

func TestPermalinkStripsAPISuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleGame + "\n"))
	}))
	defer srv.Close()

	a := NewAdapter(httpfast.NewClient(), srv.URL+"/api", 200)
	games, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	want := srv.URL + "/q7ZvsdUF"
	if games[0].URL != want {
		t.Fatalf("permalink = %s, want %s", games[0].URL, want)
	}
}

func TestColorParameterForwarded(t *testing.T) {
	var gotColor string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotColor = r.URL.Query().Get("color")
		w.Write([]byte(sampleGame + "\n"))
	})

	if _, err := a.FetchGames(context.Background(), "bob", gamedto.ColorWhite, ""); err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if gotColor != "white" {
		t.Fatalf("color parameter = %q, want white", gotColor)
	}
}

func TestMalformedLineSkipped(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleGame + "\n{not json}\n"))
	})

	games, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected malformed line skipped, got %d games", len(games))
	}
}

func TestEmptyStreamIsNoGames(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if !gamedto.IsKind(err, gamedto.ErrNoGamesFound) {
		t.Fatalf("expected no_games_found, got %v", err)
	}
}

func TestUnknownUsername(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := a.FetchGames(context.Background(), "nosuchuser", gamedto.ColorBoth, "")
	if !gamedto.IsKind(err, gamedto.ErrUsernameNotFound) {
		t.Fatalf("expected username_not_found, got %v", err)
	}
}

func TestRateLimited(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if !gamedto.IsKind(err, gamedto.ErrRateLimited) {
		t.Fatalf("expected rate_limited, got %v", err)
	}
	var de *gamedto.DomainError
	if !errors.As(err, &de) || !de.Retryable {
		t.Fatalf("rate limit errors should be retryable: %v", err)
	}
}

func TestUnexpectedStatusIsUnknown(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	_, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if !gamedto.IsKind(err, gamedto.ErrUnknown) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestDrawAndUnknownWinner(t *testing.T) {
	draw := `{"id":"d1","status":"draw","createdAt":1,"players":{"white":{"user":{"name":"bob"}},"black":{"user":{"name":"alice"}}}}`
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(draw + "\n"))
	})

	games, err := a.FetchGames(context.Background(), "bob", gamedto.ColorBoth, "")
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	if games[0].Result != "1/2-1/2" {
		t.Fatalf("missing winner should normalize to a draw, got %s", games[0].Result)
	}
}
