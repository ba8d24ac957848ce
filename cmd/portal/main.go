package main

// @title Flipcash Partner Portal API
// @version 1.0
// @description Partner-facing portal for the Flipcash device buyback platform. Agents, lead assignments, offers and wallet.

// @contact.name Partner Support
// @contact.email partners@flipcash.in

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the portal session token.

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/flipcash/partner-portal/config"
	"github.com/flipcash/partner-portal/pkg/agents"
	"github.com/flipcash/partner-portal/pkg/api/handlers"
	custommw "github.com/flipcash/partner-portal/pkg/api/middleware"
	"github.com/flipcash/partner-portal/pkg/assignments"
	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/cache"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/jobs"
	"github.com/flipcash/partner-portal/pkg/logger"
	"github.com/flipcash/partner-portal/pkg/metrics"
	custommiddleware "github.com/flipcash/partner-portal/pkg/middleware"
	"github.com/flipcash/partner-portal/pkg/offers"
	"github.com/flipcash/partner-portal/pkg/payments"
	"github.com/flipcash/partner-portal/pkg/validate"
	"github.com/flipcash/partner-portal/pkg/wallet"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.PortalEnvironment)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Redis (sessions + directory cache)
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize session token store and the upstream API client. The client
	// resolves the bearer token per request from the session in context.
	tokenStore := auth.NewTokenStore(redisClient)
	apiClient := flipcash.NewClient(cfg.FlipcashAPIURL, cfg.FlipcashAPITimeout, auth.NewContextTokenSource(tokenStore))
	log.Printf("✅ Upstream API client initialized (%s)", cfg.FlipcashAPIURL)

	// Structured request logger (level and format from config)
	requestLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Initialize rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	authRateLimiter := custommiddleware.NewRateLimiter(5, 2) // 5 req/min for login

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				requestLogger.Error("request failed",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency_ms", v.Latency.Milliseconds(), "error", v.Error.Error())
				return nil
			}
			requestLogger.Info("request",
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency_ms", v.Latency.Milliseconds())
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	// Prometheus metrics middleware
	e.Use(prometheusMetrics.Middleware())

	// CORS with restricted origins
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowCredentials: true,
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
		},
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())

	// Global rate limiting
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Root and health endpoints (public)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "Flipcash Partner Portal",
			"version":     "0.1.0",
			"status":      "running",
			"environment": cfg.PortalEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		cacheStatus := "up"
		if _, err := redisClient.Redis.Ping(ctx).Result(); err != nil {
			cacheStatus = "down"
		}

		upstreamStatus := "up"
		if err := apiClient.Health(ctx); err != nil {
			upstreamStatus = "down"
		}

		// Sessions live in Redis; the portal cannot serve without it. A
		// degraded upstream still reports 200 so the pod stays up.
		status := http.StatusOK
		overall := "healthy"
		if cacheStatus == "down" {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		return c.JSON(status, map[string]any{
			"status":   overall,
			"cache":    cacheStatus,
			"upstream": upstreamStatus,
		})
	})

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(prometheusMetrics.Handler()))

	// Swagger documentation (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Initialize services
	validator := validate.New()
	agentService := agents.NewService(apiClient, redisClient)
	assignmentService := assignments.NewService(apiClient, redisClient)
	offerService := offers.NewService(apiClient)
	walletService := wallet.NewService(apiClient, cfg.StorageLocalPath)
	paymentPoller := payments.NewPoller(apiClient, cfg.PaymentPollAttempts, cfg.PaymentPollInterval)

	// Initialize cron manager for housekeeping jobs
	retention := time.Duration(cfg.ExportRetentionDays) * 24 * time.Hour
	cronManager := jobs.NewCronManager(apiClient, walletService, retention, log.Default())
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatalf("❌ Failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	log.Printf("✅ Cron jobs started successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(apiClient, tokenStore, validator, cfg.SessionSecret, cfg.SessionExpirationHours)
	agentHandler := handlers.NewAgentHandler(agentService, validator)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, validator)
	offerHandler := handlers.NewOfferHandler(offerService, validator)
	walletHandler := handlers.NewWalletHandler(walletService)
	paymentHandler := handlers.NewPaymentHandler(apiClient, paymentPoller, validator)
	contentHandler := handlers.NewContentHandler()

	sessionMW := custommw.SessionMiddleware(cfg.SessionSecret, tokenStore)

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Ping endpoint (public)
	v1.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "pong",
		})
	})

	// Marketing/legal content (public)
	contentGroup := v1.Group("/content")
	{
		contentGroup.GET("/home", contentHandler.Home)
		contentGroup.GET("/policies/:slug", contentHandler.Policy)
	}

	// Authentication routes (public)
	authRoutes := v1.Group("/auth")
	{
		// Login with rate limit: 5 per minute (prevent brute force)
		authRoutes.POST("/login", authHandler.Login, authRateLimiter.RateLimitMiddleware())
		authRoutes.POST("/logout", authHandler.Logout, sessionMW)
		authRoutes.GET("/me", authHandler.Me, sessionMW)
	}

	// Protected routes (require a live portal session)
	protected := v1.Group("")
	protected.Use(sessionMW)
	{
		// Agent directory and lifecycle
		agentsGroup := protected.Group("/agents")
		{
			agentsGroup.GET("", agentHandler.Directory)
			agentsGroup.POST("", agentHandler.Create)
			agentsGroup.GET("/:id", agentHandler.Get)
			agentsGroup.PUT("/:id", agentHandler.Update)
			agentsGroup.PATCH("/:id", agentHandler.Patch)
			agentsGroup.DELETE("/:id", agentHandler.Delete)
			agentsGroup.POST("/:id/verify", agentHandler.Verify)
			agentsGroup.POST("/:id/toggle-status", agentHandler.ToggleStatus)
			agentsGroup.POST("/:id/toggle-availability", agentHandler.ToggleAvailability)
			agentsGroup.POST("/:id/activate", agentHandler.Activate)
			agentsGroup.POST("/:id/deactivate", agentHandler.Deactivate)
			agentsGroup.GET("/:id/assignments", agentHandler.Assignments)
			agentsGroup.GET("/:id/activity-logs", agentHandler.ActivityLogs)
			agentsGroup.GET("/:id/stats", agentHandler.Stats)
		}

		// Lead assignment workflow
		assignmentsGroup := protected.Group("/assignments")
		{
			assignmentsGroup.GET("/available-agents", assignmentHandler.AvailableAgents)
			assignmentsGroup.GET("/assignable-leads", assignmentHandler.AssignableLeads)
			assignmentsGroup.POST("", assignmentHandler.Create)
			assignmentsGroup.GET("", assignmentHandler.List)
			assignmentsGroup.GET("/:id", assignmentHandler.Get)
			assignmentsGroup.DELETE("/:id", assignmentHandler.Cancel)
			assignmentsGroup.POST("/:id/reassign", assignmentHandler.Reassign)
		}

		// Offer negotiation
		offersGroup := protected.Group("/offers")
		{
			offersGroup.GET("", offerHandler.List)
			offersGroup.GET("/:id", offerHandler.View)
			offersGroup.POST("/:id/respond", offerHandler.Respond)
		}

		// Wallet and statements
		walletGroup := protected.Group("/wallet")
		{
			walletGroup.GET("", walletHandler.Summary)
			walletGroup.GET("/transactions", walletHandler.Transactions)
			walletGroup.POST("/statements", walletHandler.ExportStatement)
			walletGroup.GET("/statements/:file_id/download", walletHandler.DownloadStatement)
		}

		// Payment gateway checkout and verification
		paymentsGroup := protected.Group("/payments")
		{
			paymentsGroup.POST("/create-order", paymentHandler.CreateOrder)
			paymentsGroup.GET("/callback", paymentHandler.Callback)
			paymentsGroup.GET("/verify/:order_id", paymentHandler.VerifyOrder)
		}
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.PortalHost, cfg.PortalPort)
	log.Printf("🚀 Flipcash Partner Portal starting on %s", address)
	log.Printf("📝 Log level: %s, Log format: %s", cfg.LogLevel, cfg.LogFormat)
	log.Printf("🔐 Session expiration: %d hours", cfg.SessionExpirationHours)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d), login 5/min", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("💳 Payment polling: %d attempts every %s", cfg.PaymentPollAttempts, cfg.PaymentPollInterval)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cronManager.Stop()
	log.Println("✅ Cron jobs stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
