package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/SalsaMixLabs/containerized-microservices-pipeline-service"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("login-service"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := auth.LoadConfig()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	if err := auth.BootstrapAdmin(ctx, repo, cfg, lgr.GetLogger("bootstrap")); err != nil {
		panic(err)
	}

	telemetry := lgr.GetLogger("telemetry")
	sink := auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
		telemetry.Info("event", "type", event.EventType, "user_id", event.UserID)
		return nil
	})

	provider := auth.NewUserProvider(repo.Users()).
		WithLogger(lgr.GetLogger("identity"))

	auther := auth.NewAuthenticator(provider, cfg).
		WithLogger(lgr.GetLogger("auth")).
		WithActivitySink(sink)

	app := fiber.New(fiber.Config{
		AppName: "login-service",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
	}))

	controller := auth.NewAuthController(
		auth.WithControllerRepo(repo),
		auth.WithControllerAuthenticator(auther),
		auth.WithControllerTokenService(auther.TokenService()),
		auth.WithControllerActivitySink(sink),
		auth.WithControllerLogger(lgr.GetLogger("http")),
	)
	controller.RegisterRoutes(app)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
		}
	}()

	lgr.GetLogger("http").Info("listening", "addr", cfg.HTTPAddr)

	waitExitSignal()

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		lgr.GetLogger("http").Error("shutdown error", "error", err)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
