// Package server assembles the HTTP router from configuration, storage and
// services. cmd/api serves it; the end-to-end tests drive it in-process.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"intabyu/internal/audio"
	"intabyu/internal/config"
	"intabyu/internal/handlers"
	"intabyu/internal/middleware"
	"intabyu/internal/services"
	"intabyu/internal/storage"
	"intabyu/internal/validator"

	_ "intabyu/internal/docs" // Import swagger docs
)

// jsonBodyLimit caps request bodies on routes that carry no audio.
const jsonBodyLimit int64 = 1 << 20

// uploadEnvelope covers the JSON around the encoded audio: field names,
// question id, duration and a media type with codec parameters.
const uploadEnvelope int64 = 64 << 10

// Deps are the collaborators the router is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  *storage.AudioStore
	// Prober measures durations; nil disables server-side durations and backfill.
	Prober audio.Prober
}

// Services groups the services built for the router so callers such as the
// scheduler can share them.
type Services struct {
	Categories  services.CategoryServicer
	Questions   services.QuestionServicer
	Recordings  services.RecordingServicer
	Maintenance services.MaintenanceServicer
	Audit       services.AuditServicer
}

// NewServices wires the service layer.
func NewServices(d Deps) *Services {
	return &Services{
		Categories: services.NewCategoryService(d.DB, d.Store),
		Questions:  services.NewQuestionService(d.DB, d.Store),
		Recordings: services.NewRecordingService(d.DB, d.Store, services.RecordingOptions{
			MaxBytes:       d.Config.MaxUploadBytes,
			DurationSource: d.Config.DurationSource,
			Prober:         d.Prober,
		}),
		Maintenance: services.NewMaintenanceService(d.DB, d.Store),
		Audit:       services.NewAuditService(d.DB),
	}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps, svc *Services) *gin.Engine {
	validator.Register()

	cfg := d.Config
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit, cfg.DefaultUserID)
	questionHandler := handlers.NewQuestionHandler(svc.Questions, svc.Audit)
	recordingHandler := handlers.NewRecordingHandler(svc.Recordings, svc.Audit)
	adminHandler := handlers.NewAdminHandler(svc.Maintenance, svc.Recordings, svc.Audit)
	audioHandler := handlers.NewAudioHandler(d.Store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stored audio
	audioHandler.Register(router)

	api := router.Group("/api")
	api.GET("/health", handlers.Health)

	small := middleware.BodyLimit(jsonBodyLimit)
	upload := middleware.BodyLimit(audio.EncodedLen(cfg.MaxUploadBytes, "") + uploadEnvelope)

	api.GET("/categories", categoryHandler.ListCategories)
	api.POST("/categories", small, categoryHandler.CreateCategory)

	api.GET("/questions", questionHandler.ListQuestions)
	api.POST("/questions", small, questionHandler.CreateQuestion)

	api.GET("/recordings", recordingHandler.ListRecordings)
	api.GET("/recordings/:id", recordingHandler.GetRecording)
	api.POST("/recordings", upload, recordingHandler.CreateRecording)

	// Test-harness mutations
	admin := api.Group("", middleware.AdminAuthMiddleware(cfg.AdminAPIKey))
	admin.PUT("/categories/:id", small, categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	admin.PUT("/questions/:id", small, questionHandler.UpdateQuestion)
	admin.DELETE("/questions/:id", questionHandler.DeleteQuestion)
	admin.DELETE("/recordings/:id", recordingHandler.DeleteRecording)
	admin.POST("/admin/wipe", adminHandler.Wipe)
	admin.POST("/admin/backfill", adminHandler.BackfillDurations)

	return router
}
