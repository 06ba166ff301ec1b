package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/config"
	"github.com/yeremiapane/storefront-api/database"
	"github.com/yeremiapane/storefront-api/realtime"
	"github.com/yeremiapane/storefront-api/router"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.SetLogLevel(cfg.LogLevel)
	if cfg.LogJSON {
		utils.UseJSONFormat()
	}
	if cfg.JWTSecret == "" {
		utils.ErrorLogger.Warn("JWT_SECRET is not set, using development secret")
	}
	utils.ConfigureJWT(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.Seed(db, database.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		StoreName:     cfg.StoreName,
	}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
	}

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SMTPEnabled() {
		mailer = services.NewSMTPMailer(services.MailConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			From:      cfg.MailFrom,
			StoreName: cfg.StoreName,
		})
	}

	var events services.EventPublisher = services.NoopPublisher{}
	if cfg.KafkaEnabled() {
		publisher, err := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			// Order tetap bisa dibuat tanpa Kafka
			utils.ErrorLogger.Errorf("Kafka disabled: %v", err)
		} else {
			events = publisher
		}
	}
	defer events.Close()

	r := router.SetupRouter(db, router.Options{
		Hub:            realtime.NewHub(),
		Mailer:         mailer,
		Events:         events,
		ShippingFee:    cfg.ShippingFee(),
		StoreName:      cfg.StoreName,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		UploadsDir:     "public/uploads",
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Warnf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}
