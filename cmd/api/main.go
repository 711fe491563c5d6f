package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/sst-manager-api/internal/app"
	"github.com/jhoicas/sst-manager-api/internal/application/auth"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sst-manager-api/internal/interfaces/http"
	"github.com/jhoicas/sst-manager-api/pkg/config"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // .env opcional
	rootCmd := &cobra.Command{
		Use:   "sst-manager",
		Short: "API de administración SST multi-empresa",
		RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Levanta el servidor HTTP",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Crea el esquema y carga los datos base",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate(cmd.Context()) },
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	return cfg, log, nil
}

func migrate(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	cfg.DB.AutoMigrate = true
	db, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Error().Err(err).Msg("conexión a la base de datos")
		return err
	}
	defer db.Close()

	if err := storage.Seed(ctx, db.Gorm, cfg.Seed, log); err != nil {
		log.Error().Err(err).Msg("datos base")
		return err
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("esquema y datos base listos")
	return nil
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	db, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Error().Err(err).Msg("conexión a la base de datos")
		return err
	}
	defer db.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}
	c := app.Build(db.Gorm, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log, m)

	srv := httpRouter.NewApp(httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		Dispatcher:  c.Dispatcher,
		JWTSecret:   cfg.JWT.Secret,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		SwaggerFile: "./docs/swagger.json",
		Metrics:     m,
		Log:         log,
	})

	go func() {
		if err := srv.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
