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

	"greenhaven/internal/cache"
	"greenhaven/internal/config"
	"greenhaven/internal/db"
	"greenhaven/internal/httpserver"
	"greenhaven/internal/notify"
	addressrepo "greenhaven/internal/repository/address"
	cartrepo "greenhaven/internal/repository/cart"
	inventoryrepo "greenhaven/internal/repository/inventory"
	orderrepo "greenhaven/internal/repository/order"
	productrepo "greenhaven/internal/repository/product"
	reviewrepo "greenhaven/internal/repository/review"
	tokenrepo "greenhaven/internal/repository/token"
	userrepo "greenhaven/internal/repository/user"
	verificationrepo "greenhaven/internal/repository/verification"
	wishlistrepo "greenhaven/internal/repository/wishlist"
	accountsvc "greenhaven/internal/service/account"
	addresssvc "greenhaven/internal/service/address"
	cartsvc "greenhaven/internal/service/cart"
	catalogsvc "greenhaven/internal/service/catalog"
	checkoutsvc "greenhaven/internal/service/checkout"
	ordersvc "greenhaven/internal/service/order"
	reviewsvc "greenhaven/internal/service/review"
	wishlistsvc "greenhaven/internal/service/wishlist"

	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var productCache *cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		productCache = cache.New(client, 5*time.Minute)
	}

	var publisher *notify.Publisher
	if cfg.AMQPURL != "" {
		conn, ch, err := notify.SetupConn(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("connect to broker: %v", err)
		}
		defer conn.Close()
		publisher = notify.NewPublisher(ch)
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	verificationRepo := verificationrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	inventoryRepo := inventoryrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	reviewRepo := reviewrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)

	accountService := accountsvc.New(userRepo, tokenRepo, verificationRepo, publisher)
	addressService := addresssvc.New(addressRepo)
	catalogService := catalogsvc.New(productRepo, productCache)
	cartService := cartsvc.New(cartRepo, productRepo)
	checkoutService := checkoutsvc.New(cartRepo, addressRepo, orderRepo, inventoryRepo, nil, publisher, cfg.Pricing)
	orderService := ordersvc.New(orderRepo, publisher)
	reviewService := reviewsvc.New(reviewRepo, productRepo)
	wishlistService := wishlistsvc.New(wishlistRepo, productRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AccountSvc:  accountService,
		CatalogSvc:  catalogService,
		AddressSvc:  addressService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		ReviewSvc:   reviewService,
		WishlistSvc: wishlistService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
