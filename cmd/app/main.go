package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ruvim24/task-tracker-api/internal/config"
	"github.com/ruvim24/task-tracker-api/internal/handler"
	"github.com/ruvim24/task-tracker-api/internal/mail"
	"github.com/ruvim24/task-tracker-api/internal/repo"
	"github.com/ruvim24/task-tracker-api/internal/search"
	"github.com/ruvim24/task-tracker-api/internal/service"
	"github.com/ruvim24/task-tracker-api/internal/storage"
	"github.com/ruvim24/task-tracker-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL) // Создаем новое соединение к БД
	if err != nil {
		log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close() // Запланированное закрытие соединения

	if err := pool.Ping(context.Background()); err != nil { // Пытаемся пингануть БД
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Объектное хранилище для вложений
	minioStorage, err := storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logger.Fatal("Failed to create storage client", zap.Error(err))
	}
	if err := minioStorage.EnsureBucket(context.Background()); err != nil {
		logger.Warn("Failed to ensure bucket, presigned uploads may fail", zap.Error(err))
	}

	// Поисковый индекс
	indexer, err := search.NewElasticIndexer(cfg.ElasticURL)
	if err != nil {
		logger.Fatal("Failed to create search client", zap.Error(err))
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)

	// Репозитории
	taskRepo := repo.NewTaskRepo(pool)
	timeLogRepo := repo.NewTimeLogRepo(pool)
	commentRepo := repo.NewCommentRepo(pool)
	attachmentRepo := repo.NewAttachmentRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)

	// Сервисы
	taskService := service.NewTaskService(taskRepo, userRepo, commentRepo)
	timeLogService := service.NewTimeLogService(taskRepo, timeLogRepo)
	commentService := service.NewCommentService(taskRepo, commentRepo)
	attachmentService := service.NewAttachmentService(taskRepo, attachmentRepo, minioStorage)
	userService := service.NewUserService(userRepo)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	handler.Routes(r,
		handler.NewTaskHandler(taskService, logger),
		handler.NewTimeLogHandler(timeLogService, logger),
		handler.NewCommentHandler(commentService, logger),
		handler.NewAttachmentHandler(attachmentService, logger),
		handler.NewUserHandler(userService, logger),
	)

	// Воркеры разбирают outbox: письма и индексация
	workerPool := worker.NewPool(notificationRepo, taskRepo, userRepo, mailer, indexer, logger, cfg.WorkerCount)
	workerPool.Start(context.Background())

	// Еженедельный отчет по топ-задачам
	reporter := worker.NewReporter(userRepo, timeLogRepo, mailer, logger)
	if err := reporter.Start(cfg.ReportSchedule); err != nil {
		logger.Fatal("Failed to start report scheduler", zap.Error(err))
	}

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}

	reporter.Stop()
	workerPool.Stop()
	logger.Info("Server stopped succsessfully!")
}
