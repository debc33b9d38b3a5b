package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-app/src/config"
	"notes-app/src/database"
	"notes-app/src/infrastructure/repository"
	"notes-app/src/interface/handler"
	"notes-app/src/logger"
	"notes-app/src/routes"
	"notes-app/src/storage"
	"notes-app/src/usecase"
	"notes-app/src/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// 設定を読み込み
	cfg := config.LoadConfig()

	// ロガーを初期化
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// データベースに接続
	db, err := database.NewDB(&cfg.Database, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("データベース接続に失敗")
	}
	defer db.Close()

	// S3アップローダーを初期化（設定が有効な場合）
	var uploader *storage.LogUploader
	if cfg.Log.UploadEnabled {
		uploader, err = storage.NewLogUploader(&cfg.S3, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			// 定期的なログアップロードを開始
			uploader.StartPeriodicUpload(cfg.Log.Directory, cfg.Log.UploadInterval, cfg.Log.UploadMaxAge)
		}
	}

	// 依存を組み立て
	noteRepo := repository.NewNoteRepository(db, logger.Log)
	noteUsecase := usecase.NewNoteUsecase(noteRepo, cfg.Database.QueryTimeout)
	noteHandler := handler.NewNoteHandler(noteUsecase, validator.NewCustomValidator(), logger.Log, cfg.IsProduction())

	// Ginルーターを初期化
	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, noteHandler)

	// ヘルスチェック用のエンドポイント
	r.GET("/health", func(c *gin.Context) {
		status := "OK"
		httpStatus := http.StatusOK
		if err := db.Health(); err != nil {
			logger.Log.WithError(err).Error("データベースのヘルスチェックに失敗")
			status = "NG"
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// バージョン確認用のエンドポイント
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Notes API",
			"version": "1.0",
			"service": "notes-app",
		})
	})

	// グレースフルシャットダウンの設定
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("シャットダウンシグナルを受信しました")

		// 最後のログアップロードを実行
		if uploader != nil {
			if err := uploader.UploadOldLogs(cfg.Log.Directory, 0); err != nil {
				logger.Log.WithError(err).Error("最後のログアップロードに失敗")
			}
		}

		db.Close()
		logger.CloseLogger()
		os.Exit(0)
	}()

	// サーバーを起動
	serverAddr := ":" + cfg.Server.Port
	logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")

	if err := r.Run(serverAddr); err != nil {
		logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
	}
}
