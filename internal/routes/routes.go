package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/config"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/handlers"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/middleware"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	cancellationRepo := repository.NewCancellationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	hub := notifyws.NewHub()
	go hub.Run()

	classService := services.NewClassService(db, classRepo, userRepo)
	sessionService := services.NewSessionService(classRepo, sessionRepo, cancellationRepo, assignmentRepo)
	scheduleService := services.NewScheduleService(sessionRepo)
	attendanceService := services.NewAttendanceService(db, classRepo)
	cancellationService := services.NewCancellationService(db, classRepo)
	homeworkService := services.NewHomeworkService(db, classRepo, sessionRepo, assignmentRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	classHandler := handlers.NewClassHandler(classService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, sessionService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, classRepo, hub)
	cancellationHandler := handlers.NewCancellationHandler(cancellationService, classRepo, hub)
	homeworkHandler := handlers.NewHomeworkHandler(homeworkService, storageService, hub)
	notificationHandler := handlers.NewNotificationHandler(hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	classes := authProtected.Group("/classes")
	classes.Post("", classHandler.CreateClass)
	classes.Get("", classHandler.ListClasses)
	classes.Get("/:classId/sessions", scheduleHandler.ListClassSessions)
	classes.Get("/:classId/sessions/:num", scheduleHandler.GetSession)
	classes.Post("/:classId/sessions/:num/attendance", attendanceHandler.Mark)
	classes.Post("/:classId/sessions/:num/cancellation/request", cancellationHandler.Request)
	classes.Post("/:classId/sessions/:num/cancellation/respond", cancellationHandler.Respond)
	classes.Post("/:classId/sessions/:num/homework", homeworkHandler.Assign)
	classes.Get("/:classId/sessions/:num/homework", homeworkHandler.ListSessionHomework)

	authProtected.Get("/schedule/week", scheduleHandler.WeeklySchedule)

	homework := authProtected.Group("/homework")
	homework.Get("", homeworkHandler.Dashboard)
	homework.Post("/:assignmentId/submission", homeworkHandler.Submit)
	homework.Post("/:assignmentId/grade", homeworkHandler.Grade)

	authProtected.Post("/uploads/homework", homeworkHandler.UploadFile)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))
}
