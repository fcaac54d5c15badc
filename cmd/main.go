package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fyerfyer/edu-assess-rag/api"
	"github.com/fyerfyer/edu-assess-rag/api/handler"
	"github.com/fyerfyer/edu-assess-rag/api/middleware"
	appconfig "github.com/fyerfyer/edu-assess-rag/config"
	"github.com/fyerfyer/edu-assess-rag/internal/cache"
	"github.com/fyerfyer/edu-assess-rag/internal/corpus"
	"github.com/fyerfyer/edu-assess-rag/internal/database"
	"github.com/fyerfyer/edu-assess-rag/internal/index"
	"github.com/fyerfyer/edu-assess-rag/internal/repository"
	"github.com/fyerfyer/edu-assess-rag/internal/services"
	"github.com/fyerfyer/edu-assess-rag/pkg/storage"
)

func main() {
	// 加载.env文件(如果存在)，环境变量可以覆盖配置文件
	_ = godotenv.Load()

	configFile := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 初始化日志
	logger := setupLogger(cfg.Log)
	logger.Info("Starting reference corpus retrieval service...")

	// 初始化数据库
	if err := setupDatabase(cfg, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 创建语料文件存储
	corpusStorage, err := setupStorage(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 创建查询结果缓存
	cacheService, err := setupCache(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	// 初始化检索引擎
	engine := services.NewRetrievalEngine(
		corpusStorage,
		cacheService,
		logger,
		services.WithChunkerConfig(corpus.ChunkerConfig{
			ChunkSize:    cfg.Document.ChunkSize,
			ChunkOverlap: cfg.Document.ChunkOverlap,
		}),
		services.WithIndexConfig(index.Config{
			MaxFeatures: cfg.Index.MaxFeatures,
			NgramMax:    cfg.Index.NgramMax,
		}),
		services.WithTopK(cfg.Search.TopK),
		services.WithMaxContextChars(cfg.Search.MaxContextChars),
		services.WithCacheTTL(time.Duration(cfg.Cache.TTL)*time.Second),
		services.WithCorpusFiles(cfg.Corpus.DCRCFile, cfg.Corpus.BNCCFile),
		services.WithRepository(repository.NewReferenceRepository()),
	)

	// 启动时自动加载语料
	if cfg.Corpus.AutoLoad {
		if _, err := engine.Load(context.Background()); err != nil {
			// 语料文件可能尚未就位，服务照常启动，通过API手动触发加载
			logger.WithError(err).Warn("Failed to auto-load reference corpus on startup")
		}
	}

	// 初始化API处理器
	retrievalHandler := handler.NewRetrievalHandler(engine, repository.NewReferenceRepository())

	// 设置路由
	r := api.SetupRouter(retrievalHandler)

	// 启动HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger 设置日志系统
// 配置了日志文件时走滚动文件，同时输出到标准输出
func setupLogger(cfg appconfig.LogConfig) *logrus.Logger {
	logger := middleware.GetLogger()

	switch cfg.Level {
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	return logger
}

// setupDatabase 设置数据库
func setupDatabase(cfg *appconfig.Config, logger *logrus.Logger) error {
	dbConfig := database.DefaultConfig()
	dbConfig.Type = cfg.Database.Type
	dbConfig.DSN = cfg.Database.DSN

	return database.Setup(dbConfig, logger)
}

// setupStorage 设置语料文件存储
func setupStorage(cfg *appconfig.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "minio":
		return storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
		})
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			Path: cfg.Storage.Path,
		})
	}
}

// setupCache 设置查询结果缓存
func setupCache(cfg *appconfig.Config) (cache.Cache, error) {
	if !cfg.Cache.Enable {
		return nil, nil
	}

	return cache.NewCache(cache.Config{
		Type:            cfg.Cache.Type,
		RedisAddr:       cfg.Cache.Address,
		RedisPassword:   cfg.Cache.Password,
		RedisDB:         cfg.Cache.DB,
		DefaultTTL:      time.Duration(cfg.Cache.TTL) * time.Second,
		CleanupInterval: 10 * time.Minute,
	})
}
