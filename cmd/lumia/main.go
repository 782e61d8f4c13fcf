package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/marsolucoes/lumia/app/controllers"
	"github.com/marsolucoes/lumia/app/repository"
	"github.com/marsolucoes/lumia/internal/pkg/billing"
	"github.com/marsolucoes/lumia/internal/pkg/cache"
	"github.com/marsolucoes/lumia/internal/pkg/database"
	"github.com/marsolucoes/lumia/internal/pkg/env"
	"github.com/marsolucoes/lumia/internal/pkg/mail"
	"github.com/marsolucoes/lumia/internal/pkg/router"
	"github.com/marsolucoes/lumia/internal/pkg/scheduler"
	"github.com/marsolucoes/lumia/internal/pkg/siomar"
)

func main() {
	app := NewApplication()

	// trial scheduler runs alongside the HTTP server
	jobs := scheduler.NewTrialJobs(billing.NewRepository(database.GetDB()), mail.NewTemplateMailer())
	manager := scheduler.GetManager(jobs)
	manager.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		manager.Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		AppName: "lumia",
	})

	app.Use(recover.New(), logger.New())

	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	db := database.GetDB()
	mailer := mail.NewTemplateMailer()
	repos := repository.GetGlobalFactory().GetRepositories()

	billingSvc := billing.NewServiceFromDB(db, mailer)
	gateway := billing.NewNetCredClientFromEnv()
	syncSvc := siomar.NewService(siomar.NewClientFromEnv(), siomar.NewProfileMarker(db))

	api := router.NewApiRouter(
		controllers.NewCheckoutController(billingSvc, gateway, syncSvc),
		controllers.NewWebhookController(billingSvc),
		controllers.NewInviteController(repos, mailer, syncSvc),
		controllers.NewSyncController(syncSvc),
	)
	router.InstallRouter(app, api)

	return app
}
