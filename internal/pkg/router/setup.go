package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router installs a group of routes onto the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, api *ApiRouter) {
	setup(app, api)
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
