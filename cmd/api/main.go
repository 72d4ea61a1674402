package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/image"
	"storefront/internal/mail"
	cartrepo "storefront/internal/repository/cart"
	resetrepo "storefront/internal/repository/passwordreset"
	productrepo "storefront/internal/repository/product"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	oauthsvc "storefront/internal/service/oauth"
	passwordsvc "storefront/internal/service/password"
	profilesvc "storefront/internal/service/profile"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	resizer := image.NewResizer()
	mailer := mail.NewSendGridClient(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, logger)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	resetRepo := resetrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, sessionRepo)
	cartService := cartsvc.New(cartRepo)
	catalogService := catalogsvc.New(productRepo, resizer)
	profileService := profilesvc.New(userRepo, resizer)
	passwordService := passwordsvc.New(userRepo, resetRepo, mailer, logger)
	oauthService := oauthsvc.New(oauthsvc.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	}, userRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CartSvc:     cartService,
		CatalogSvc:  catalogService,
		ProfileSvc:  profileService,
		PasswordSvc: passwordService,
		OAuthSvc:    oauthService,
	}, cfg.CORSOrigin)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, authService, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// sweepSessions deletes expired session rows once an hour until ctx ends.
func sweepSessions(ctx context.Context, auth *authsvc.Service, logger *log.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PurgeExpiredSessions(ctx); err != nil {
				logger.Printf("purge expired sessions: %v", err)
			}
		}
	}
}
