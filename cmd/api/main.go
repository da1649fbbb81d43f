package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/config"
	"taobao-orders/backend/internal/dateformat"
	"taobao-orders/backend/internal/domain/orders"
	"taobao-orders/backend/internal/domain/signin"
	"taobao-orders/backend/internal/domain/user"
	"taobao-orders/backend/internal/firebase"
	apihttp "taobao-orders/backend/internal/http"
	"taobao-orders/backend/internal/logging"
)

func main() {
	// .env is optional; the environment wins.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.TimeZone).Msg("unknown time zone")
	}

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase app init failed")
	}

	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase auth client init failed")
	}

	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		log.Fatal().Err(err).Msg("firestore init failed")
	}
	defer fs.Close()

	// Repositories
	userRepo := user.NewRepo(fs.Client, cfg.UsersCollection)
	ordersRepo := orders.NewRepo(fs.Client, cfg.OrdersCollection)

	// Services
	signInSvc := signin.NewService(authClient, userRepo, cfg.SignInProviders)
	ordersSvc := orders.NewService(ordersRepo, userRepo, orders.Options{
		PriceOverrideRole: cfg.PriceOverrideRole,
		LookupConcurrency: cfg.NameLookupConcurrency,
	})

	// Export (optional - only if a bucket is configured)
	var exporter *orders.Exporter
	if cfg.StorageBucket != "" {
		bucket, err := firebase.NewBucket(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("storage unavailable, export disabled")
		} else {
			defer bucket.Close()
			exporter = orders.NewExporter(ordersSvc, bucket, ordersRepo.Collection(), cfg.ExportURLTTL)
			log.Info().Str("bucket", bucket.Name()).Msg("order export enabled")
		}
	} else {
		log.Info().Msg("FIREBASE_STORAGE_BUCKET not set, export disabled")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:       cfg,
		Logger:    logger,
		Verifier:  authClient,
		SignInSvc: signInSvc,
		OrdersSvc: ordersSvc,
		Exporter:  exporter,
		Formatter: dateformat.New(cfg.DefaultLocale, loc),
	})

	// Request contexts derive from baseCtx so open order streams end on shutdown.
	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	// graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Str("project", cfg.ProjectID).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down...")
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Warn().Err(err).Msg("shutdown incomplete")
	}
}
