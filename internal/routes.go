package internal

import (
	"net/http"

	"sbbd/internal/controllers"
	"sbbd/internal/providers"
	"sbbd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/api/messages", http.HandlerFunc(apiController.CreateMessage))
	routers.Get("/api/messages", http.HandlerFunc(apiController.GetMessages))
	routers.Get("/api/messages/active", http.HandlerFunc(apiController.GetActiveMessages))
	routers.Get("/api/messages/paginated", http.HandlerFunc(apiController.GetMessagesPaginated))
	routers.Get("/api/messages/{id}", http.HandlerFunc(apiController.GetMessage))
	routers.Put("/api/messages/{id}", http.HandlerFunc(apiController.UpdateMessage))
	routers.Delete("/api/messages/{id}", http.HandlerFunc(apiController.DeleteMessage))
	routers.Post("/api/messages/{id}/toggle", http.HandlerFunc(apiController.ToggleMessage))
	routers.Get("/api/clients", http.HandlerFunc(apiController.GetClients))
	routers.Get("/api/clients/online", http.HandlerFunc(apiController.GetOnlineClients))
	routers.Post("/api/clients", http.HandlerFunc(apiController.Heartbeat))
	routers.Post("/api/clients/{id}/offline", http.HandlerFunc(apiController.MarkClientOffline))
	routers.Get("/api/stats", http.HandlerFunc(apiController.GetStats))
	return routers
}
