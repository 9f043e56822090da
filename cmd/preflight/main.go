// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/hamed0406/apihealth/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	if err := godotenv.Load(); err == nil {
		ok(".env loaded")
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("configuration invalid")
	}
	ok("API_ADDR=" + cfg.Addr)
	ok("LOG_DIR=" + cfg.LogDir + " LOG_LEVEL=" + cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty; API will keep checks in memory and lose them on restart.")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fail("DATABASE_URL unreachable: " + err.Error())
		}
		_ = conn.Close(ctx)
		ok("DATABASE_URL reachable")
	}

	if cfg.FavoritesFile == "" {
		warn("FAVORITES_FILE empty; dashboard will list no favorites.")
	} else {
		favs, err := config.LoadFavorites(cfg.FavoritesFile)
		if err != nil {
			fail(err.Error())
		}
		ok(fmt.Sprintf("FAVORITES_FILE has %d endpoints", len(favs)))
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; any origin may call the API.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.TrustProxy {
		ok("TRUST_PROXY on; client address taken from X-Forwarded-For / X-Real-IP")
	}

	if cfg.RateLimitRPM == 0 {
		warn("RATE_LIMIT_RPM=0; probe triggers are not rate limited.")
	}

	ok("preflight passed")
}
