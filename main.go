// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-shop/config"
	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/repository/mongodb"
	"go-shop/routes"
	"go-shop/services"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log, err := newLogger(cfg.Server.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == config.EnvDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	revoked, err := store.Open(ctx, cfg.Revocation, log)
	if err != nil {
		return err
	}
	defer revoked.Close()

	tokens, err := utils.NewTokenManager([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	if err != nil {
		return err
	}
	hasher, err := utils.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	users := mongodb.NewUserRepo(db)
	auth := services.NewAuthService(users, tokens, revoked, hasher, utils.NewMailer(cfg.Mail.APIKey, cfg.Mail.Sender), log)

	handlers := routes.Controllers{}
	if cfg.Server.Enabled(config.ServiceAuth) {
		if err := users.EnsureIndexes(ctx); err != nil {
			return err
		}
		handlers.User = controllers.NewUserController(auth, services.NewUserService(users), cfg.JWT.CookieSecure, log)
	}
	if cfg.Server.Enabled(config.ServiceCart) {
		handlers.Cart = controllers.NewCartController(services.NewCartService(mongodb.NewCartRepo(db)), log)
	}
	if cfg.Server.Enabled(config.ServiceProduct) {
		products := mongodb.NewProductRepo(db)
		if err := products.EnsureIndexes(ctx); err != nil {
			return err
		}
		images, err := utils.OpenImageStore(cfg.Images, log)
		if err != nil {
			return err
		}
		handlers.Product = controllers.NewProductController(services.NewProductService(products, images, log), log)
		if _, onDisk := images.(*utils.DiskImageStore); onDisk {
			handlers.UploadDir = cfg.Images.UploadDir
		}
	}

	router := mux.NewRouter()
	router.Use(middleware.Recover(log), middleware.Logging(log))
	routes.RegisterRoutes(router, handlers, middleware.NewAuthorizer(auth, routes.Policy(), log))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Strings("services", cfg.Server.Services),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
