// Command lichess-login drives the Lichess OAuth session from the terminal:
// it prints the authorization URL, completes the code exchange after the
// redirect, and inspects or clears the stored session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"time"

	appcfg "github.com/kapu/chess-history-go/internal/config"
	"github.com/kapu/chess-history-go/internal/httpfast"
	"github.com/kapu/chess-history-go/internal/lichessauth"
	"github.com/kapu/chess-history-go/internal/msgcat"
	"github.com/kapu/chess-history-go/internal/obslog"
)

func main() {
	login := flag.Bool("login", false, "start the authorization flow and print the URL to visit")
	code := flag.String("code", "", "authorization code from the redirect")
	state := flag.String("state", "", "state parameter from the redirect")
	logout := flag.Bool("logout", false, "clear the stored session")
	refresh := flag.Bool("refresh", false, "refresh the stored token")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required")
	}
	if cfg.LichessClientID == "" {
		log.Fatal("LICHESS_CLIENT_ID is required")
	}

	cat, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	store, err := lichessauth.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("auth store error: %v", err)
	}
	defer func() { _ = store.Close() }()

	client := httpfast.NewClient(httpfast.WithTimeout(15 * time.Second))
	session := lichessauth.NewSession(lichessauth.Config{
		ClientID:    cfg.LichessClientID,
		AuthURL:     cfg.LichessAuthURL,
		TokenURL:    cfg.LichessTokenURL,
		RedirectURL: cfg.LichessRedirectURL,
		AccountURL:  cfg.LichessAccountURL,
	}, store, client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *login:
		authURL, err := session.Login(ctx)
		if err != nil {
			log.Fatalf("login error: %v", err)
		}
		fmt.Println(cat.MustRender("auth.login_prompt", nil))
		fmt.Println(authURL)

	case *code != "":
		q := url.Values{"code": {*code}, "state": {*state}}
		info, err := session.Initialize(ctx, q)
		if err != nil {
			log.Fatalf("exchange error: %v", err)
		}
		fmt.Println(cat.MustRender("auth.logged_in", info))

	case *logout:
		session.Logout(ctx)
		fmt.Println(cat.MustRender("auth.logged_out", nil))

	case *refresh:
		if _, err := session.Refresh(ctx); err != nil {
			log.Fatalf("refresh error: %v", err)
		}
		fmt.Println("token refreshed")

	default:
		info, err := session.Initialize(ctx, nil)
		if err != nil {
			log.Fatalf("session check error: %v", err)
		}
		if info.LoggedIn {
			fmt.Println(cat.MustRender("auth.logged_in", info))
		} else {
			fmt.Println(cat.MustRender("auth.logged_out", nil))
		}
	}
}
