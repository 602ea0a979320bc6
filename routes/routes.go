package routes

import (
	"AfyaCare/cache"
	"AfyaCare/config"
	"AfyaCare/controllers"
	"AfyaCare/handlers"
	"AfyaCare/middlewares"
	"AfyaCare/repositories"
	"AfyaCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://afyacare.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())

	billingRepo := repositories.NewBillingRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)
	triageRepo := repositories.NewTriageRepository(cache)
	consultationRepo := repositories.NewConsultationRepository(cache)
	labRepo := repositories.NewLabRepository(cache)
	pharmacyRepo := repositories.NewPharmacyRepository(cache)
	userRepo := repositories.NewUserRepository(cache)
	reportRepo := repositories.NewReportRepository(cache)

	billingHandler := handlers.NewBillingHandler(services.NewBillingService(billingRepo))
	patientHandler := handlers.NewPatientHandler(services.NewPatientService(patientRepo))
	triageHandler := handlers.NewTriageHandler(services.NewTriageService(triageRepo))
	consultationHandler := handlers.NewConsultationHandler(services.NewConsultationService(consultationRepo))
	labHandler := handlers.NewLabHandler(services.NewLabService(labRepo))
	pharmacyHandler := handlers.NewPharmacyHandler(services.NewPharmacyService(pharmacyRepo))
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo))
	reportHandler := handlers.NewReportHandler(services.NewReportService(reportRepo))

	controllers.SetupAPIRoutes(
		router,
		patientHandler,
		triageHandler,
		consultationHandler,
		labHandler,
		pharmacyHandler,
		billingHandler,
		userHandler,
		reportHandler,
	)
	controllers.SetupRootRoute(router)

	return router
}
