package bootstrap

import (
	"context"
	"log"
	"time"

	"proctoflex-be/internal/config"
	"proctoflex-be/internal/controller"
	"proctoflex-be/internal/handler"
	"proctoflex-be/internal/pkg/logger"
	"proctoflex-be/internal/pkg/mailer"
	"proctoflex-be/internal/repository/implementation"
	"proctoflex-be/internal/repository/memory"
	"proctoflex-be/internal/service"
	"proctoflex-be/internal/websocket"
	"proctoflex-be/pkg/riskstore"

	pktNats "proctoflex-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const captureTopic = "session_captures"

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	UserController         controller.IUserController
	ExamController         controller.IExamController
	AlertController        controller.IAlertController
	SurveillanceController controller.ISurveillanceController

	// Background services (exposed for main.go to run)
	CaptureConsumer service.ICaptureConsumerService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}
	riskStore := riskstore.New(rdb, time.Duration(cfg.Surveillance.RiskTTLMinutes)*time.Minute)

	// WebSocket hub on its own log file so alert traffic does not drown
	// the application log.
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(wsLogger)

	// 3. Repositories
	userRepo := implementation.NewUserRepository(db)
	examRepo := implementation.NewExamRepository(db)
	sessionRepo := implementation.NewSessionRepository(db)
	alertRepo := implementation.NewAlertRepository(db)
	systemLogRepo := implementation.NewSystemLogRepository(db)
	verificationRepo := memory.NewVerificationRepository(
		time.Duration(cfg.Surveillance.VerificationTTLMinutes) * time.Minute,
	)

	// 4. Services
	alertService := service.NewAlertService(alertRepo, sessionRepo, examRepo, userRepo, wsHub, natsPub, emailService, sysLogger)
	identityService := service.NewIdentityService(userRepo, verificationRepo, alertService, cfg.Surveillance.IdentityThreshold, sysLogger)
	sessionService := service.NewSessionService(sessionRepo, examRepo, verificationRepo, wsHub, natsPub, sysLogger)
	surveillanceService := service.NewSurveillanceService(sessionRepo, alertRepo, examRepo, alertService, riskStore, sysLogger)
	authService := service.NewAuthService(userRepo, natsPub, sysLogger)
	examService := service.NewExamService(examRepo)
	userService := service.NewUserService(userRepo)

	capturePublisher := service.NewCapturePublisherService(captureTopic, pubSub)
	captureConsumer := service.NewCaptureConsumerService(pubSub, captureTopic, sessionRepo, sysLogger)

	// Audit trail worker
	auditService := service.NewAuditService(systemLogRepo, natsSub, sysLogger)
	if natsSub != nil {
		go auditService.Start()
	}

	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		UserController:         controller.NewUserController(userService),
		ExamController:         controller.NewExamController(examService),
		AlertController:        controller.NewAlertController(alertService),
		SurveillanceController: controller.NewSurveillanceController(surveillanceService, identityService, sessionService, alertService, capturePublisher),

		CaptureConsumer: captureConsumer,

		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,
	}
}
