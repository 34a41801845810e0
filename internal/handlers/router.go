package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/middleware"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// @title CardioNova API
// @version 1.0
// @description Heart-disease risk prediction backend: ensemble scoring, SHAP attributions, generated narratives and per-doctor history.

// @host localhost:5000
// @BasePath /

// SetupRoutes wires middleware and routes onto a gin engine.
func SetupRoutes(
	predictHandler *PredictHandler,
	historyHandler *HistoryHandler,
	authHandler *AuthHandler,
	jwtMiddleware *middleware.JWTMiddleware,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "CardioNova backend running"})
	})

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	r.POST("/predict", jwtMiddleware.OptionalAuth(), predictHandler.Predict)

	r.GET("/history/:user_id", jwtMiddleware.RequireAuth(), historyHandler.GetHistory)
	r.DELETE("/history/item/:item_id", jwtMiddleware.RequireAuth(), historyHandler.DeleteHistoryItem)

	doctor := r.Group("/doctor", jwtMiddleware.RequireDoctor())
	{
		doctor.GET("/patients", historyHandler.GetDoctorPatients)
		doctor.GET("/patient/:patient_id", historyHandler.GetDoctorPatientProfile)
	}

	return r
}

// respondError maps a service error to its HTTP status and a JSON body. A
// client-safe message and optional detail come from the taxonomy; anything
// untyped stays a generic 500 with no internals exposed.
func respondError(c *gin.Context, err error) {
	if appErr := apperrors.As(err); appErr != nil {
		body := models.ErrorResponse{Msg: appErr.Msg}
		if appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
		c.JSON(appErr.Status(), body)
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Msg: "Internal server error"})
}
