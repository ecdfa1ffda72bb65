package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront/internal/config"
	httpctl "storefront/internal/controllers/http"
	"storefront/internal/infra"
	"storefront/internal/infra/database"
	"storefront/internal/infra/kafka"
	"storefront/internal/infra/media"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/infra/session"
	"storefront/internal/repository/sqlstore"
	"storefront/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func newPublisher(cfg config.Config) (infra.PublisherInterface, error) {
	switch cfg.EventBroker {
	case "rabbitmq":
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "kafka":
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "", "none", "log":
		return infra.LogPublisher{}, nil
	}
	return nil, errors.New("unknown EVENT_BROKER " + cfg.EventBroker)
}

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}
	store := sqlstore.NewStore(db)

	redisClient, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)

	publisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	emitter := services.NewEmitter(publisher)

	images := media.NewStore(cfg.MediaRoot, cfg.MediaURL)
	auth := services.NewAuthService(store)
	if err := auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	handler := httpctl.NewHandler(httpctl.Services{
		Catalog: services.NewCatalogService(store, images),
		Carts:   services.NewCartService(store),
		Orders:  services.NewOrderService(store, emitter),
		Reviews: services.NewReviewService(store),
		Auth:    auth,
		Contact: services.NewContactService(emitter),
	}, sessions, httpctl.Options{
		Media:        images,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 16 << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if !strings.HasPrefix(cfg.MediaURL, "http") {
		r.Static(cfg.MediaURL, cfg.MediaRoot)
	}
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting storefront on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}
	emitter.Wait()
	publisher.Close()
}
