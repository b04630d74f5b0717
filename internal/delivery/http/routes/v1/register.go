package v1

import (
	"log"

	"campus-connect/internal/ai"
	"campus-connect/internal/config"
	"campus-connect/internal/database"
	"campus-connect/internal/delivery/http/handler"
	"campus-connect/internal/infrastructure/cache"
	"campus-connect/internal/mail"
	"campus-connect/internal/pkg/jwt"
	"campus-connect/internal/repository"
	"campus-connect/internal/usecase"
	"campus-connect/internal/usecase/notify"
	"campus-connect/internal/video"
	"campus-connect/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the process-wide collaborators the route tree needs. They are
// constructed once at bootstrap and shared; everything request-scoped is
// built here.
type Deps struct {
	Cfg      config.Config
	DB       database.DB
	Cache    *cache.Redis
	Hub      *ws.Hub
	Mailer   mail.Mailer
	Video    video.Service
	Rescorer ai.Rescorer
	Logger   *log.Logger
}

func Register(r fiber.Router, jwtSvc jwt.Service, authMW fiber.Handler, d Deps) {
	if r == nil {
		return
	}

	userRepo := repository.NewPostgresUserRepository(d.DB)
	profileRepo := repository.NewPostgresProfileRepository(d.DB)
	jobRepo := repository.NewPostgresJobRepository(d.DB)
	applicationRepo := repository.NewPostgresApplicationRepository(d.DB)
	callRepo := repository.NewPostgresCallRequestRepository(d.DB)
	notificationRepo := repository.NewPostgresNotificationRepository(d.DB)

	dispatcher := notify.NewDispatcher(notificationRepo, d.Mailer, d.Hub, d.Logger, d.Cfg.Mail.SendTimeout)

	authUC := usecase.NewAuthUsecase(userRepo, profileRepo, jwtSvc)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	jobUC := usecase.NewJobUsecase(d.DB, jobRepo, applicationRepo, userRepo, dispatcher, d.Logger)
	jobListUC := usecase.NewJobListUsecase(jobRepo, profileRepo, d.Cache, d.Logger)
	applicationUC := usecase.NewApplicationUsecase(d.DB, applicationRepo, jobRepo, profileRepo, userRepo, dispatcher, d.Rescorer, d.Logger)
	callUC := usecase.NewCallUsecase(d.DB, callRepo, jobRepo, userRepo, dispatcher, d.Video, d.Logger)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	authHandler := handler.NewAuthHandler(authUC)
	profileHandler := handler.NewProfileHandler(profileUC)
	jobHandler := handler.NewJobHandler(jobUC, jobListUC)
	applicationHandler := handler.NewApplicationHandler(applicationUC)
	callHandler := handler.NewCallHandler(callUC, d.Video)
	notificationHandler := handler.NewNotificationHandler(notificationUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMW)

	profilesGroup := protected.Group("/profiles")
	profileHandler.RegisterRoutes(profilesGroup)

	jobsGroup := protected.Group("/jobs")
	jobHandler.RegisterRoutes(jobsGroup)
	applicationHandler.RegisterJobRoutes(jobsGroup)

	applicationsGroup := protected.Group("/applications")
	applicationHandler.RegisterRoutes(applicationsGroup)

	callsGroup := protected.Group("/calls")
	callHandler.RegisterRoutes(callsGroup)

	notificationsGroup := protected.Group("/notifications")
	notificationHandler.RegisterRoutes(notificationsGroup)
}
