package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"

	recordsv1 "github.com/Leganyst/rental-console/internal/api/records/v1"
	"github.com/Leganyst/rental-console/internal/config"
	"github.com/Leganyst/rental-console/internal/db"
	"github.com/Leganyst/rental-console/internal/handler"
	"github.com/Leganyst/rental-console/internal/metrics"
	"github.com/Leganyst/rental-console/internal/model"
	"github.com/Leganyst/rental-console/internal/repository"
	"github.com/Leganyst/rental-console/internal/service"
)

func main() {
	// 1. Конфиг: .env, YAML, окружение.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(log)

	metrics.Register()

	var (
		store      repository.Store
		audit      repository.AuditLog = repository.NopAuditLog{}
		grpcServer *grpc.Server
	)

	if cfg.Store.GRPCTarget != "" {
		// 2а. Удалённое хранилище: своя БД не нужна.
		conn, err := grpc.NewClient(cfg.Store.GRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Error("dial record store", slog.String("target", cfg.Store.GRPCTarget), slog.Any("error", err))
			os.Exit(1)
		}
		defer conn.Close()

		store = repository.NewRemoteStore(recordsv1.NewRecordServiceClient(conn))
		log.Info("using remote record store", slog.String("target", cfg.Store.GRPCTarget))
	} else {
		// 2б. Своя БД через GORM и миграции моделей.
		gormDB, err := db.NewGormDB(&cfg.DB)
		if err != nil {
			log.Error("init db", slog.Any("error", err))
			os.Exit(1)
		}
		if err := model.AutoMigrate(gormDB); err != nil {
			log.Error("auto migrate", slog.Any("error", err))
			os.Exit(1)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Error("sql DB", slog.Any("error", err))
			os.Exit(1)
		}
		defer sqlDB.Close()

		gormStore := repository.NewGormStore(gormDB)
		store = gormStore
		audit = repository.NewGormAuditLog(gormDB)

		// 3. gRPC-сервис записей для других экземпляров консоли.
		grpcServer = grpc.NewServer()
		recordsv1.RegisterRecordServiceServer(grpcServer, service.NewRecordServer(gormStore, log))
		reflection.Register(grpcServer)

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			log.Error("listen grpc", slog.String("addr", cfg.Server.GRPCAddr), slog.Any("error", err))
			os.Exit(1)
		}
		go func() {
			log.Info("record gRPC server listening", slog.String("addr", cfg.Server.GRPCAddr))
			if err := grpcServer.Serve(lis); err != nil {
				log.Error("grpc serve", slog.Any("error", err))
			}
		}()
	}

	// 4. Консоль. Недоступные таблицы стартуют пустыми.
	console := service.NewConsole(store, service.WithAuditLog(audit), service.WithLogger(log))
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := console.Load(loadCtx); err != nil {
		log.Warn("initial load incomplete", slog.Any("error", err))
	}
	cancel()

	// 5. HTTP API.
	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      handler.New(console, log).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("http server listening", slog.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// 6. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", slog.Any("error", err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}
