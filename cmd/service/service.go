// @title        Coding Club API
// @version      1.0
// @description  程式俱樂部後端 API：登入註冊、AI 程式碼評分、檔案與結業證書
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"coding-club/internal/assets"
	"coding-club/internal/cache"
	"coding-club/internal/certificate"
	"coding-club/internal/config"
	"coding-club/internal/database"
	"coding-club/internal/grading"
	"coding-club/internal/logger"
	"coding-club/internal/mailer"
	"coding-club/internal/middleware"
	"coding-club/internal/registration"
	"coding-club/internal/router"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "coding-club/docs" // 引入 swag 產出的 docs
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// closingDirectory 是需要在關閉服務時釋放的會員名冊
type closingDirectory interface {
	registration.Directory
	io.Closer
}

var (
	loadConfig      = config.Load
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newAssetStore   = func(name, key, secret string) (assets.Store, error) { return assets.NewCloudinary(name, key, secret) }
	newDirectory    = func(ctx context.Context, projectID, credentials string) (closingDirectory, error) {
		return registration.NewFirestore(ctx, projectID, credentials)
	}
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc    = os.Exit
)

func newMailer(cfg *config.Config, log *slog.Logger) mailer.Mailer {
	if cfg.SendgridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY 未設定，信件只會寫入日誌")
		return mailer.NewConsoleMailer(log)
	}
	return mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFrom, cfg.MailFromName)
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// 存取令牌與重設令牌都從環境變數讀取金鑰
	if err := os.Setenv("JWT_SECRET", cfg.JWTSecret); err != nil {
		return err
	}

	logr, closeLogger := newLogger(os.Stdout, logger.Options{
		Level:        cfg.LogLevel,
		Env:          cfg.Env,
		RollbarToken: cfg.RollbarToken,
	})
	defer closeLogger()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	redis, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer redis.Close()

	store, err := newAssetStore(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret)
	if err != nil {
		return err
	}

	var dir registration.Directory = registration.NewStatic(cfg.RegistrationAllowlist...)
	if cfg.FirebaseProjectID != "" {
		fs, err := newDirectory(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			return fmt.Errorf("Firestore 連線失敗: %v", err)
		}
		defer fs.Close()
		dir = fs
	}

	if len(cfg.Providers) == 0 {
		logr.Warn("未設定任何 AI 供應商，評分請求將失敗")
	}
	mail := newMailer(cfg, logr)

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = !cfg.IsProduction()
	e.Use(middleware.RequestID)
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Setup(e, router.Deps{
		DB:           db,
		Cache:        redis,
		Mailer:       mail,
		Directory:    dir,
		Grader:       grading.NewGrader(db, grading.NewChain(grading.NewProviders(cfg.Providers)...), logr),
		Files:        assets.NewFiles(store),
		Certificates: certificate.NewService(db, store, mail, logr),
		Domain:       cfg.Domain,
	})

	logr.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	return startServer(e, ":"+cfg.Port)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
