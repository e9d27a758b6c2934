package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ButyrinIA/blogapi/internal/config"
	"github.com/ButyrinIA/blogapi/internal/logger"
	"github.com/ButyrinIA/blogapi/internal/metrics"
	"github.com/ButyrinIA/blogapi/internal/server"
	"github.com/ButyrinIA/blogapi/internal/storage"
	"github.com/ButyrinIA/blogapi/internal/storage/file"
	"github.com/ButyrinIA/blogapi/internal/storage/memory"
	"github.com/ButyrinIA/blogapi/internal/storage/postgres"
	"github.com/ButyrinIA/blogapi/internal/storage/sqlite"
	"github.com/ButyrinIA/blogapi/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, storageType string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "GraphQL API для коллекции постов блога",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
			}
			if cmd.Flags().Changed("storage") {
				cfg.Storage.Type = storageType
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "путь к файлу конфигурации")
	cmd.Flags().StringVar(&storageType, "storage", config.StorageFile, "тип хранилища: file, memory, postgres или sqlite")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	m := metrics.New()
	posts, err := store.Open(ctx, backend, store.WithLogger(log), store.WithMetrics(m))
	if err != nil {
		backend.Close()
		return fmt.Errorf("не удалось открыть коллекцию постов: %w", err)
	}
	defer posts.Close()

	srv, err := server.New(cfg, posts, log, m)
	if err != nil {
		return err
	}
	log.Info("Запуск сервера", zap.String("port", cfg.Server.Port))
	return srv.Run(ctx)
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Backend, error) {
	switch cfg.Storage.Type {
	case config.StoragePostgres:
		log.Info("Инициализация хранилища PostgreSQL")
		backend, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("не удалось инициализировать PostgreSQL: %w", err)
		}
		return backend, nil
	case config.StorageSQLite:
		log.Info("Инициализация хранилища SQLite", zap.String("path", cfg.SQLite.Path))
		backend, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("не удалось инициализировать SQLite: %w", err)
		}
		return backend, nil
	case config.StorageMemory:
		log.Info("Инициализация хранилища Memory")
		return memory.New(), nil
	case config.StorageFile:
		log.Info("Инициализация файлового хранилища", zap.String("path", cfg.File.Path))
		return file.New(cfg.File.Path), nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", cfg.Storage.Type)
	}
}
