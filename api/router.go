package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KesienaSelahor/Forex-Prediction-App/api/handlers"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

func SetupRoutes(app *fiber.App, svc *terminal.Service, gatherer prometheus.Gatherer) {
	snapshotHandler := handlers.NewSnapshotHandler(svc)
	sessionHandler := handlers.NewSessionHandler(svc)
	pairsHandler := handlers.NewPairsHandler(svc)
	advisoryHandler := handlers.NewAdvisoryHandler(svc)

	app.Get("/healthz", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := app.Group("/v1")

	v1.Get("/snapshot", snapshotHandler.GetSnapshot)
	v1.Post("/snapshot/refresh", snapshotHandler.Refresh)
	v1.Get("/strength", snapshotHandler.GetStrength)
	v1.Get("/signal", snapshotHandler.GetSignal)
	v1.Get("/news", snapshotHandler.GetNews)

	v1.Get("/sessions", sessionHandler.GetSessions)

	v1.Get("/pairs", pairsHandler.GetPairs)
	v1.Put("/pairs/selected", pairsHandler.SelectPair)

	v1.Post("/advisory", advisoryHandler.Analyze)
	v1.Get("/advisory/latest", advisoryHandler.Latest)
}
