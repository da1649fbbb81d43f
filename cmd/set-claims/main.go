package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/config"
	"taobao-orders/backend/internal/firebase"
	"taobao-orders/backend/internal/logging"
)

// Grants a role claim to a Firebase user, e.g. the role that may change
// manual prices (PRICE_OVERRIDE_ROLE).
func main() {
	uid := flag.String("uid", "", "target firebase uid")
	role := flag.String("role", "staff", "role to grant")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logging.Setup(cfg)

	if strings.TrimSpace(*uid) == "" {
		log.Fatal().Msg("uid is required: -uid=xxxxx")
	}
	r := strings.TrimSpace(*role)
	if r == "" {
		log.Fatal().Msg("role must not be empty")
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase.NewApp")
	}
	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatal().Err(err).Msg("app.Auth")
	}

	claims := map[string]any{
		"role":  r,
		"roles": []string{r},
		r:       true,
	}

	if err := authClient.SetCustomUserClaims(ctx, *uid, claims); err != nil {
		log.Fatal().Err(err).Str("uid", *uid).Msg("SetCustomUserClaims")
	}

	fmt.Printf("ok: %s claims set for %s\n", r, *uid)
}
