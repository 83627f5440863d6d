package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/aramkh/academy-ticketing/internal/config"
	"github.com/aramkh/academy-ticketing/internal/handler"
	"github.com/aramkh/academy-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the customer-facing endpoints: seat map
// browsing, purchase and ticket retrieval.  No authentication applies;
// possession of a confirmation code is the retrieval credential.  The
// seat map route sits behind the Redis response cache when one is
// configured, since every browsing customer polls it.
func RegisterPublic(e *echo.Echo, sm *handler.SeatMapHandler, p *handler.PurchaseHandler, t *handler.TicketHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/v1/events/:id/seatmap", sm.GetSeatMap, middleware.NewRedisCache(cacheCfg, rdb))
	e.POST("/v1/events/:id/purchase", p.Purchase)
	e.GET("/v1/tickets/:code", t.GetTicket)
	e.GET("/v1/tickets/:code/qr", t.GetTicketQR)
	e.GET("/v1/tickets/:code/pdf", t.GetTicketPDF)
}

// RegisterGate registers the door scanner endpoints.  Both require a
// staff token with the GATE or ADMIN role and sit behind the Redis
// token bucket so a wedged scanner cannot hammer the redemption path.
func RegisterGate(e *echo.Echo, g *handler.GateHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	gate := e.Group("/v1/gate")
	gate.Use(middleware.StaffAuth(jwtSecret))
	gate.Use(middleware.RequireRole("GATE", "ADMIN"))
	gate.Use(middleware.NewTokenBucket(rlCfg, rdb))
	gate.POST("/verify", g.Verify)
	gate.POST("/redeem", g.Redeem)
}

// RegisterAdmin registers the office staff endpoints.  All of them
// require the ADMIN role; the purge route additionally checks the
// X-Admin-Pin header inside the handler.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	admin := e.Group("/v1/admin")
	admin.Use(middleware.StaffAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/tickets/:code/approve", a.Approve)
	admin.POST("/tickets/:code/reject", a.Reject)
	admin.GET("/events/:id/tickets", a.ListByEvent)
	admin.DELETE("/tickets/:code", a.Purge)
}
