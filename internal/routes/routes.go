package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// Deps reúne a infraestrutura já construída pelo main.
type Deps struct {
	Config       *config.Config
	Log          *zap.Logger
	Appointments domain.Repository
	Users        identity.Directory
	Audit        *audit.Dispatcher
	Registry     *prometheus.Registry
	Now          ucAppointment.Clock
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingMetrics := metrics.NewBookingMetrics(d.Registry)
	tokens := identity.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	users := identity.NewService(d.Users)
	hours := cfg.Hours()

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	getSlotsUC, err := ucAppointment.NewGetSlots(hours, cfg.SlotsCacheSize, d.Now, bookingMetrics)
	if err != nil {
		return err
	}

	bookAppointmentUC := ucAppointment.NewBookAppointment(
		d.Appointments,
		hours,
		d.Now,
		d.Audit,
		bookingMetrics,
	)

	listRecentUC := ucAppointment.NewListRecentAppointments(d.Appointments, d.Now)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		d.Appointments,
		d.Now,
		d.Audit,
		bookingMetrics,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		d.Appointments,
		d.Now,
		d.Audit,
		bookingMetrics,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		d.Appointments,
		d.Users,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(users, tokens)
	meHandler := handlers.NewMeHandler(users)
	slotsHandler := handlers.NewSlotsHandler(getSlotsUC, d.Now)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookAppointmentUC,
		listRecentUC,
		cancelAppointmentUC,
	)

	adminHandler := handlers.NewAdminHandler(
		completeAppointmentUC,
		listAppointmentsByDateUC,
		d.Now,
	)

	// ======================================================
	// 🩺 OPERACIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/slots", slotsHandler.List)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(cfg.AuthRatePerMinute, d.Log.Named("ratelimit")))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokens))
		{
			secured.GET("/me", meHandler.GetMe)

			client := secured.Group("/me/appointments")
			client.Use(middleware.RequireRole(identity.RoleClient))
			{
				client.GET("", appointmentHandler.ListRecent)
				client.POST("", appointmentHandler.Create)
				client.PATCH("/:id/cancel", appointmentHandler.Cancel)
			}

			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(identity.RoleAdmin))
			{
				admin.GET("/appointments", adminHandler.ListByDate)
				admin.PATCH("/appointments/:id/complete", adminHandler.Complete)
			}
		}
	}

	return nil
}
