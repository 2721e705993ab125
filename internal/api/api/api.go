package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/cmd/middleware"
	"github.com/berryray-tech/Berry-Ray-main/internal/service"
)

type Routers struct {
	Service service.Service
	Logger  *zerolog.Logger
	Mode    string
	// AllowOrigins falls back to cors.Default when empty.
	AllowOrigins []string
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.Mode
	if mode == "" {
		mode = "release"
	}
	app := ginext.New(mode)

	app.Use(middleware.TraceIDMiddleware())
	if r.Logger != nil {
		app.Use(middleware.LoggingMiddleware(r.Logger))
	}
	app.Use(corsMiddleware(r.AllowOrigins))

	r.Register(app.Engine)
	return app
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AddAllowHeaders("Authorization", middleware.TraceIDHeader)
	cfg.AddExposeHeaders(middleware.TraceIDHeader)
	return cors.New(cfg)
}

// Register mounts the /v1 routes on g.
func (r *Routers) Register(g gin.IRouter) {
	s := r.Service
	apiGroup := g.Group("/v1")

	apiGroup.GET("/services", s.GetServices)

	regs := apiGroup.Group("/registrations")
	regs.POST("", s.StartDraft)
	regs.GET("/:draft", s.GetDraft)
	regs.DELETE("/:draft", s.CancelDraft)
	regs.POST("/:draft/service", s.ChooseService)
	regs.POST("/:draft/package", s.ChoosePackage)
	regs.POST("/:draft/details", s.SubmitDetails)
	regs.POST("/:draft/proof", s.SelectProof)
	regs.POST("/:draft/submit", s.SubmitDraft)

	apiGroup.POST("/contact", s.SubmitContact)
	apiGroup.GET("/news", s.GetNews)
	apiGroup.GET("/testimonies", s.GetTestimonies)

	adm := apiGroup.Group("/admin")
	adm.POST("/login", s.Login)
	adm.POST("/logout", s.Logout)
	adm.POST("/refresh", s.Refresh)
	adm.GET("/session", s.GetSession)

	guarded := adm.Group("", s.AdminOnly)
	guarded.GET("/registrations", s.ListRegistrations)
	guarded.PATCH("/registrations/:id", s.UpdateRegistrationStatus)
	guarded.GET("/contact-messages", s.ListContactMessages)
	guarded.POST("/news", s.CreateNews)
	guarded.GET("/testimonies", s.ListAllTestimonies)
	guarded.POST("/testimonies", s.CreateTestimony)
	guarded.PATCH("/testimonies/:id", s.ToggleTestimony)
}
