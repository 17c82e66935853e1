package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/app"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/config"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/constants"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/controllers"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/middleware"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/repositories"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/routes"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/services"
	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize service:", err)
	}
	defer application.Close()

	reqRepo := repositories.NewEmployerRequestRepository(application.DB)
	payRepo := repositories.NewPaymentRepository(application.DB)
	candRepo := repositories.NewCandidateRepository(application.DB)
	empRepo := repositories.NewEmployerRepository(application.DB)
	auditRepo := repositories.NewAdminAuditLogRepository(application.DB)

	var sgClient *sendgrid.Client
	if cfg.SendgridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}
	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	notifier := services.NewNotificationService(
		sgClient, twClient,
		cfg.SendgridFromEmail, cfg.SendgridFromName, cfg.TwilioFromNumber,
	)

	candidateCache := cache.New(constants.CandidateCacheTTL, constants.CandidateCacheCleanup)
	candidates := services.NewCandidateDirectory(candRepo, candidateCache)

	lifecycleService := services.NewRequestLifecycleService(reqRepo, payRepo, empRepo, candidates, auditRepo, notifier)
	paymentService := services.NewPaymentService(reqRepo, payRepo, empRepo, auditRepo, notifier)
	employerQueries := services.NewEmployerRequestService(reqRepo, payRepo, candidates)
	adminQueries := services.NewAdminRequestService(reqRepo, payRepo)
	maintenance := services.NewMaintenanceService(reqRepo)

	if cfg.SeedTestData {
		app.SeedTestData(context.Background(), empRepo, candRepo)
	}

	healthController := controllers.NewHealthController()
	employerController := controllers.NewEmployerRequestsController(lifecycleService, employerQueries)
	adminController := controllers.NewAdminRequestsController(lifecycleService, paymentService, adminQueries)
	paymentController := controllers.NewPaymentConfirmationsController(paymentService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthHandler).Methods(http.MethodGet)

	// Employer
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.EmployerRequests, employerController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EmployerRequests, employerController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.EmployerRequestByID, employerController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.EmployerRequestFullDetails, employerController.RequestFullDetailsHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EmployerRequestMarkHired, employerController.MarkHiredHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EmployerRequestMarkNotHired, employerController.MarkNotHiredHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.EmployerCandidatePhoto, employerController.PhotoAccessHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.EmployerCandidateDetails, employerController.FullDetailsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PaymentConfirm, paymentController.ConfirmHandler).Methods(http.MethodPost)

	// Admin
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))

	admin.HandleFunc(routes.AdminRequests, adminController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminRequestByID, adminController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminApprove, adminController.ApproveHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminReject, adminController.RejectHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminReopen, adminController.ReopenHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminRequestFirstPayment, adminController.RequestFirstPaymentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminApproveFirstPayment, adminController.ApproveFirstPaymentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminRejectFirstPayment, adminController.RejectFirstPaymentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminApproveFullDetails, adminController.ApproveFullDetailsHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminRejectFullDetails, adminController.RejectFullDetailsHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminRequestSecondPayment, adminController.ApproveFullDetailsHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminApproveSecondPayment, adminController.ApproveSecondPaymentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminRejectSecondPayment, adminController.RejectSecondPaymentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminCandidateAvailability, adminController.UpdateCandidateAvailabilityHandler).Methods(http.MethodPost)

	c := cron.New()
	_, cronErr := c.AddFunc("@daily", func() {
		maintenance.FlagStaleRequests(context.Background())
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule stale request sweep")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", config.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Service failed to start:", err)
	}
}
