package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-history-go/internal/chesscom"
	appcfg "github.com/kapu/chess-history-go/internal/config"
	"github.com/kapu/chess-history-go/internal/fetcher"
	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/internal/lichess"
	"github.com/kapu/chess-history-go/internal/lichessauth"
	"github.com/kapu/chess-history-go/internal/msgcat"
	"github.com/kapu/chess-history-go/internal/obslog"
	"github.com/kapu/chess-history-go/internal/stats"
	"github.com/kapu/chess-history-go/pkg/gamedto"
)

func main() {
	platform := flag.String("platform", "chesscom", "chesscom or lichess")
	username := flag.String("username", "", "account to fetch games for")
	color := flag.String("color", "both", "white, black or both")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cat, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	req := fetcher.Request{
		Platform: gamedto.Platform(strings.ToLower(strings.TrimSpace(*platform))),
		Username: *username,
		Color:    gamedto.Color(strings.ToLower(strings.TrimSpace(*color))),
	}
	if err := fetcher.ValidateUsername(req.Platform, req.Username); err != nil {
		fail(cat, err)
	}

	client := httpfast.NewClient(httpfast.WithTimeout(15*time.Second), httpfast.WithRetry(3))
	svc := fetcher.NewService(
		chesscom.NewAdapter(client, cfg.ChessComAPIBase, cfg.RecentMonthsToFetch, cfg.MaxGamesToFetch),
		lichess.NewAdapter(client, cfg.LichessAPIBase, cfg.MaxGamesToFetch),
	)

	ctx := context.Background()

	if req.Platform == gamedto.PlatformLichess && cfg.RedisURL != "" && cfg.LichessClientID != "" {
		req.AccessToken = restoreToken(ctx, cfg, client, cat)
	}

	games, err := svc.FetchGames(ctx, req)
	if err != nil {
		fail(cat, err)
	}

	for _, g := range games {
		fmt.Println(cat.MustRender("game.line", g))
	}
	fmt.Println(cat.MustRender("stats.summary", stats.Compute(games, strings.TrimSpace(req.Username))))
}

// restoreToken revives a stored Lichess session if one exists. Any failure
// falls back to unauthenticated fetching.
func restoreToken(ctx context.Context, cfg *appcfg.AppConfig, client *httpfast.Client, cat *msgcat.Catalog) string {
	store, err := lichessauth.NewRedisStore(cfg.RedisURL)
	if err != nil {
		obslog.L().Warn("auth store unavailable, continuing unauthenticated", zap.Error(err))
		return ""
	}
	defer func() { _ = store.Close() }()

	session := lichessauth.NewSession(lichessauth.Config{
		ClientID:    cfg.LichessClientID,
		AuthURL:     cfg.LichessAuthURL,
		TokenURL:    cfg.LichessTokenURL,
		RedirectURL: cfg.LichessRedirectURL,
		AccountURL:  cfg.LichessAccountURL,
	}, store, client)

	info, err := session.Initialize(ctx, nil)
	if err != nil {
		obslog.L().Warn("auth restore failed, continuing unauthenticated", zap.Error(err))
	}
	if info.LoggedIn {
		fmt.Println(cat.MustRender("auth.logged_in", info))
		return session.AccessToken()
	}
	fmt.Println(cat.MustRender("auth.logged_out", nil))
	return ""
}

func fail(cat *msgcat.Catalog, err error) {
	var de *gamedto.DomainError
	if errors.As(err, &de) {
		fmt.Fprintln(os.Stderr, cat.MustRender("error.display", de))
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
