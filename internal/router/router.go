package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"servicedesk/internal/auth"
	"servicedesk/internal/config"
	"servicedesk/internal/handler"
	"servicedesk/internal/logger"
	"servicedesk/internal/metrics"
	"servicedesk/internal/middleware"
	"servicedesk/internal/model"
)

// Handlers groups every HTTP handler the router wires.
type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Staff        *handler.StaffHandler
	Contact      *handler.ContactHandler
	Request      *handler.RequestHandler
	Asset        *handler.AssetHandler
	Inventory    *handler.InventoryHandler
	Notification *handler.NotificationHandler
	Activity     *handler.ActivityHandler
	Report       *handler.ReportHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
	}), middleware.Identity())

	// Profile routes
	secured.GET("/me", h.Profile.Me)
	secured.PUT("/me", h.Profile.UpdateMe)

	// Contact routes
	secured.GET("/contacts", h.Contact.List)
	secured.POST("/contacts", h.Contact.Create)
	secured.GET("/contacts/:id", h.Contact.Get)
	secured.PUT("/contacts/:id", h.Contact.Update)
	secured.DELETE("/contacts/:id", h.Contact.Delete)

	// Service request routes; lifecycle actions are separate POSTs
	secured.GET("/requests", h.Request.List)
	secured.POST("/requests", h.Request.Create)
	secured.GET("/requests/:id", h.Request.Get)
	secured.PUT("/requests/:id", h.Request.Update)
	secured.DELETE("/requests/:id", h.Request.Delete)
	secured.POST("/requests/:id/claim", h.Request.Claim)
	secured.POST("/requests/:id/assign", h.Request.Assign)
	secured.POST("/requests/:id/start", h.Request.Start)
	secured.POST("/requests/:id/complete", h.Request.Complete)
	secured.POST("/requests/:id/cancel", h.Request.Cancel)

	// Asset routes
	secured.GET("/assets", h.Asset.List)
	secured.POST("/assets", h.Asset.Create)
	secured.GET("/assets/:id", h.Asset.Get)
	secured.PUT("/assets/:id", h.Asset.Update)
	secured.DELETE("/assets/:id", h.Asset.Delete)

	// Notification routes
	secured.GET("/notifications", h.Notification.List)
	secured.GET("/notifications/unread-count", h.Notification.UnreadCount)
	secured.GET("/notifications/stream", h.Notification.Stream)
	secured.PUT("/notifications/read-all", h.Notification.MarkAllRead)
	secured.PUT("/notifications/:id/read", h.Notification.MarkRead)

	// Activity: visible to everyone, scoped to own entries unless elevated
	secured.GET("/activity", h.Activity.List)

	// Inventory: staff roles read, admin and manager write
	inventoryRead := secured.Group("/inventory", middleware.RequireRole(
		model.RoleAdmin, model.RoleManager, model.RoleCEO, model.RoleTechnician,
	))
	inventoryRead.GET("", h.Inventory.List)
	inventoryRead.GET("/:id", h.Inventory.Get)

	inventoryWrite := secured.Group("/inventory", middleware.RequireRole(
		model.RoleAdmin, model.RoleManager,
	))
	inventoryWrite.POST("", h.Inventory.Create)
	inventoryWrite.PUT("/:id", h.Inventory.Update)
	inventoryWrite.DELETE("/:id", h.Inventory.Delete)

	// Elevated-only surfaces
	elevated := secured.Group("", middleware.RequireRole(
		model.RoleAdmin, model.RoleManager, model.RoleCEO,
	))
	elevated.GET("/staff", h.Staff.List)
	elevated.GET("/staff/:id", h.Staff.Get)
	elevated.PUT("/staff/:id", h.Staff.Update)
	elevated.PUT("/staff/:id/role", h.Staff.SetRole)
	elevated.DELETE("/staff/:id", h.Staff.Delete)
	elevated.GET("/reports/summary", h.Report.Summary)
	elevated.GET("/reports/inventory/export", h.Report.ExportInventory)
	elevated.POST("/notifications/roles", h.Notification.NotifyRoles)
	elevated.POST("/notifications/broadcast", h.Notification.Broadcast)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
