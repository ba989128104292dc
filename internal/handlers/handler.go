package handlers

import (
	_ "phoneauth/docs"
	"phoneauth/internal/logger"
	"phoneauth/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options carries the HTTP-level settings that do not belong to services.
type Options struct {
	AdminSecret    string
	AllowedOrigins []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log
// discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware)
	if mw := h.corsMiddleware(); mw != nil {
		router.Use(mw)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.root)
	router.GET("/health", h.health)

	h.registerItemRoutes(router)
	h.registerAuthRoutes(router)
	h.registerAdminRoutes(router)

	return router
}

func (h *Handler) registerItemRoutes(r *gin.Engine) {
	items := r.Group("/items")
	{
		items.GET("", h.listItems)
		items.GET("/:id", h.getItem)
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.phoneMiddleware, h.me)
	}
}

func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	r.GET("/users", h.adminSecretMiddleware, h.listUsers)
}
