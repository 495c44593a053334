package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"readiness-service/internal/cache"
	"readiness-service/internal/db"
	"readiness-service/internal/event"
	"readiness-service/internal/handlers"
	"readiness-service/internal/repository"
	"readiness-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logger.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ is optional: without it the service runs, events are skipped.
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		logger.Info("RabbitMQ not configured, events will not be published")
	}

	database := db.Client.Database("readiness_service")

	userRepo := repository.NewUserRepository(database)
	subjectRepo := repository.NewSubjectRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	masteryRepo := repository.NewMasteryRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	evalRepo := repository.NewEvaluationRepository(database)
	sessionRepo := repository.NewExamSessionRepository(database)
	answerRepo := repository.NewExamAnswerRepository(database)
	answerEvalRepo := repository.NewExamAnswerEvaluationRepository(database)
	examEvalRepo := repository.NewExamEvaluationRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	contentRepo := repository.NewContentRepository(database)

	readinessCache := cache.NewMemoryCache(5*time.Minute, 2048)

	priorityService := service.NewPriorityService(userRepo, subjectRepo, questionRepo, masteryRepo, logger)
	readinessService := service.NewReadinessService(
		userRepo, questionRepo, masteryRepo, attemptRepo, evalRepo,
		sessionRepo, answerRepo, examEvalRepo, readinessCache, logger)
	progressService := service.NewProgressService(questionRepo, masteryRepo, progressRepo, logger)
	evaluationService := service.NewEvaluationService(
		questionRepo, attemptRepo, evalRepo, masteryRepo,
		readinessService, progressService, publisher, logger)
	examService := service.NewExamService(
		userRepo, subjectRepo, questionRepo, masteryRepo, sessionRepo,
		answerRepo, answerEvalRepo, examEvalRepo,
		priorityService, readinessService, publisher, logger)
	planService := service.NewPlanService(
		userRepo, questionRepo, attemptRepo, contentRepo,
		priorityService, publisher, logger)

	priorityHandler := handlers.NewPriorityHandler(priorityService)
	readinessHandler := handlers.NewReadinessHandler(readinessService)
	examHandler := handlers.NewExamHandler(examService)
	planHandler := handlers.NewPlanHandler(planService)
	attemptHandler := handlers.NewAttemptHandler(evaluationService)
	progressHandler := handlers.NewProgressHandler(progressService)
	questionHandler := handlers.NewQuestionHandler(questionRepo)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	publicQuestion := r.Group("/public/readiness/question")
	{
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
		publicQuestion.GET("/subject/:subjectId", questionHandler.ListBySubject)
	}

	protected := r.Group("/protected/readiness")
	protected.Use(requireUser())
	{
		protected.GET("/priorities", priorityHandler.GetPriorities)
		protected.GET("/index", readinessHandler.GetReadiness)
		protected.GET("/progress", progressHandler.GetProgress)

		protected.GET("/plan/daily", planHandler.GetDailyPlan)
		protected.GET("/plan/weekly", planHandler.GetWeeklyPlan)

		protected.POST("/attempt", attemptHandler.SubmitAttempt)
		protected.GET("/attempt/:attemptId/evaluation", attemptHandler.GetEvaluation)

		protected.GET("/exam/pool/info", examHandler.GetPoolStats)
		protected.POST("/exam/blueprint", examHandler.GenerateBlueprint)
		protected.POST("/exam/session", examHandler.StartSession)
		protected.GET("/exam/session/:id", examHandler.GetSession)
		protected.PUT("/exam/session/:id/answer", examHandler.SaveAnswer)
		protected.POST("/exam/session/:id/submit", examHandler.SubmitSession)
		protected.POST("/exam/session/:id/evaluate", examHandler.EvaluateSession)
		protected.GET("/exam/session/:id/result", examHandler.GetSessionResult)
		protected.GET("/exam/session/:id/answers", examHandler.GetAnswerEvaluations)

		protected.POST("/question", questionHandler.CreateQuestion)
		protected.PUT("/question/:id", questionHandler.UpdateQuestion)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "6680"
	}
	r.Run(":" + port)
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
