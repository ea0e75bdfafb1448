package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	adtHandler "github.com/jwalitptl/hospital-api/internal/handler/adt"
	appointmentHandler "github.com/jwalitptl/hospital-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	billingHandler "github.com/jwalitptl/hospital-api/internal/handler/billing"
	diagnosticsHandler "github.com/jwalitptl/hospital-api/internal/handler/diagnostics"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	pharmacyHandler "github.com/jwalitptl/hospital-api/internal/handler/pharmacy"
	"github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	triageHandler "github.com/jwalitptl/hospital-api/internal/handler/triage"
	wardHandler "github.com/jwalitptl/hospital-api/internal/handler/ward"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/router"
	adtService "github.com/jwalitptl/hospital-api/internal/service/adt"
	appointmentService "github.com/jwalitptl/hospital-api/internal/service/appointment"
	authService "github.com/jwalitptl/hospital-api/internal/service/auth"
	billingService "github.com/jwalitptl/hospital-api/internal/service/billing"
	diagnosticsService "github.com/jwalitptl/hospital-api/internal/service/diagnostics"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	pharmacyService "github.com/jwalitptl/hospital-api/internal/service/pharmacy"
	triageService "github.com/jwalitptl/hospital-api/internal/service/triage"
	wardService "github.com/jwalitptl/hospital-api/internal/service/ward"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "hms",
		Short:         "Hospital management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yaml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfigFile(configFile)
	}
	return config.LoadConfig()
}

func newLogger(cfg *config.Config) *logger.Logger {
	log := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	log.SetGlobal()
	return log
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *postgres.Migrator) error {
				n, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(m *postgres.Migrator) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, st := range statuses {
					state := "pending"
					if st.Applied {
						state = "applied " + st.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%04d  %-40s %s\n", st.Version, st.Name, state)
				}
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, fn func(*postgres.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	newLogger(cfg)

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(postgres.NewMigrator(db))
}

func runServer(cfg *config.Config) error {
	log := newLogger(cfg)

	if err := validator.Register(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := promclient.NewRegistry()
	appMetrics := metrics.NewMetrics("hms", registry)

	engine := buildRouter(cfg, db, registry, appMetrics, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited properly")
	return nil
}

func buildRouter(cfg *config.Config, db *sqlx.DB, registry *promclient.Registry, appMetrics *metrics.Metrics, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	wardRepo := postgres.NewWardRepository(db)
	adtRepo := postgres.NewADTRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	pharmacyRepo := postgres.NewPharmacyRepository(db)
	diagnosticsRepo := postgres.NewDiagnosticsRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	triageRepo := postgres.NewTriageRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
	mailer := email.NewService(cfg.SMTP, cfg.Server.PublicURL, log)
	authSvc := authService.NewService(userRepo, jwtSvc, security.NewBcryptHasher(cfg.JWT.BcryptCost), mailer, log,
		authService.Options{VerifyTTL: cfg.JWT.VerifyTTL, SkipVerification: cfg.JWT.SkipVerify})

	protected := []router.Handler{
		patientHandler.NewHandler(patientService.NewService(patientRepo, log)),
		wardHandler.NewHandler(wardService.NewService(wardRepo)),
		adtHandler.NewHandler(adtService.NewService(adtRepo, appMetrics, log)),
		appointmentHandler.NewHandler(appointmentService.NewService(appointmentRepo, log)),
		pharmacyHandler.NewHandler(pharmacyService.NewService(pharmacyRepo, log)),
		diagnosticsHandler.NewHandler(diagnosticsService.NewService(diagnosticsRepo, log)),
		billingHandler.NewHandler(billingService.NewService(billingRepo, log)),
		triageHandler.NewHandler(triageService.NewService(triageRepo, log)),
	}

	healthH := health.NewHandler(map[string]health.Checker{
		"database": db.PingContext,
	})

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins

	r := router.NewRouter(
		middleware.NewAuthMiddleware(jwtSvc),
		authHandler.NewHandler(authSvc),
		protected,
		healthH,
		prometheus.New(registry),
		router.RouterConfig{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RateIdleExpiry:   cfg.RateLimit.IdleExpiry,
			RequestTimeout:   cfg.Server.RequestTimeout,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			CORSConfig:       corsConfig,
		},
	)
	r.Setup()
	return r.Engine()
}
