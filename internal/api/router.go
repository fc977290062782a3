package api

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"asset-tracking-backend/config"
	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/mw"
	"asset-tracking-backend/internal/policy"
	"asset-tracking-backend/internal/store"
)

// Deps is everything the router needs.
type Deps struct {
	Store     store.Store
	Tokens    *auth.TokenIssuer
	Passwords *auth.PasswordHasher
	Log       *zap.Logger
	Server    config.ServerConfig
	Now       func() time.Time // optional clock override
}

var registerTagNames sync.Once

// NewRouter creates and configures a new Gin router.
func NewRouter(d Deps) *gin.Engine {
	registerTagNames.Do(useJSONFieldNames)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		mw.RequestID(),
		mw.Recovery(d.Log),
		mw.AccessLog(d.Log),
		mw.Metrics(),
		cors.New(corsConfig(d.Server.CORSAllowedOrigins)),
	)

	handler := NewHandler(d.Store, d.Tokens, d.Passwords, d.Log)
	if d.Now != nil {
		handler.now = d.Now
	}

	// Rate limit credential endpoints per client IP.
	perSec := rate.Limit(d.Server.RateLimitPerSec)
	if perSec <= 0 {
		perSec = rate.Inf
	}
	limiter := mw.RateLimiter(mw.NewIPRateLimiter(perSec, d.Server.RateLimitBurst, 10*time.Minute))

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Token endpoints ignore the Authorization header.
		api.POST("/token/", limiter, handler.ObtainToken)
		api.POST("/token/refresh/", limiter, handler.RefreshToken)
		api.POST("/logout/", handler.Logout)

		withCaller := api.Group("", mw.Auth(d.Tokens, d.Store))
		withCaller.POST("/login/", limiter, handler.Login)

		authed := withCaller.Group("", mw.Require(policy.Authenticated))
		authed.GET("/profile/", handler.Profile)
		authed.POST("/change-password/", handler.ChangePassword)
		authed.GET("/users/", handler.ListUsers)
		authed.POST("/users/", mw.Require(policy.StaffOnly), handler.CreateUser)

		authed.GET("/dashboard/", handler.DashboardStats)
		authed.GET("/recent-activity/", handler.RecentActivity)

		authed.GET("/assets/", handler.ListAssets)
		authed.POST("/assets/", handler.CreateAsset)
		authed.GET("/assets/:id/", handler.GetAsset)
		authed.PUT("/assets/:id/", handler.UpdateAsset)
		authed.PATCH("/assets/:id/", handler.UpdateAsset)
		authed.DELETE("/assets/:id/", handler.DeleteAsset)

		authed.GET("/inventory/", handler.ListInventory)
		authed.POST("/inventory/", handler.CreateInventoryItem)
		authed.GET("/inventory/:id/", handler.GetInventoryItem)
		authed.PUT("/inventory/:id/", handler.UpdateInventoryItem)
		authed.PATCH("/inventory/:id/", handler.UpdateInventoryItem)
		authed.DELETE("/inventory/:id/", handler.DeleteInventoryItem)

		authed.GET("/assignments/", handler.ListAssignments)
		authed.POST("/assignments/", handler.CreateAssignment)
		authed.GET("/assignments/:id/", handler.GetAssignment)
		authed.PUT("/assignments/:id/", handler.UpdateAssignment)
		authed.PATCH("/assignments/:id/", handler.UpdateAssignment)
		authed.DELETE("/assignments/:id/", handler.DeleteAssignment)

		// The static report route wins over :id.
		authed.POST("/tickets/report/", handler.ReportIssue)
		authed.GET("/tickets/", handler.ListTickets)
		authed.POST("/tickets/", handler.CreateTicket)
		authed.GET("/tickets/:id/", handler.GetTicket)
		authed.PUT("/tickets/:id/", handler.UpdateTicket)
		authed.PATCH("/tickets/:id/", handler.UpdateTicket)
		authed.DELETE("/tickets/:id/", handler.DeleteTicket)

		authed.GET("/employee/dashboard/", handler.EmployeeDashboard)
		authed.GET("/employee/assets/", handler.EmployeeAssets)
		authed.GET("/employee/assignments/", handler.EmployeeAssignments)
		authed.GET("/employee/tickets/", handler.EmployeeTickets)

		authed.GET("/technician/dashboard/", handler.TechnicianDashboard)
		authed.PATCH("/technician/tickets/:id/status/", handler.UpdateTicketStatus)
		authed.GET("/technician/recent-activity/", handler.TechnicianRecentActivity)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperr.NotFound("route").Body())
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// useJSONFieldNames makes validation errors report JSON field names.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
