package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/middleware"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// HistoryStore is the prediction-record persistence the handlers depend on.
type HistoryStore interface {
	Record(ctx context.Context, record *models.PredictionRecord) error
	ListForUser(ctx context.Context, userID string) ([]models.PredictionRecord, error)
	PatientsForDoctor(ctx context.Context, doctorEmail string) ([]models.PatientSummary, error)
	PatientProfile(ctx context.Context, doctorEmail, patientID string) (*models.PatientProfile, error)
	DeleteOwned(ctx context.Context, itemID, userID string) error
}

// HistoryHandler serves the history and doctor endpoints.
type HistoryHandler struct {
	history HistoryStore
}

func NewHistoryHandler(history HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory returns one user's prediction history, newest first.
// @Summary Prediction history for a user
// @Tags history
// @Produce json
// @Param user_id path string true "User id (email)"
// @Param Authorization header string true "Bearer token whose subject equals user_id"
// @Success 200 {object} map[string]interface{} "items"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /history/{user_id} [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID := c.Param("user_id")
	email := c.GetString(middleware.ContextUserEmail)
	if email == "" || email != userID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Msg: "Forbidden"})
		return
	}

	items, err := h.history.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetDoctorPatients returns the per-patient roster for the logged-in doctor.
// @Summary Unique patients of the logged-in doctor
// @Tags doctor
// @Produce json
// @Param Authorization header string true "Bearer token with Doctor role"
// @Success 200 {object} map[string]interface{} "patients"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /doctor/patients [get]
func (h *HistoryHandler) GetDoctorPatients(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)

	patients, err := h.history.PatientsForDoctor(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

// GetDoctorPatientProfile returns one patient's full history plus stats.
// @Summary Full history for one patient of the doctor
// @Tags doctor
// @Produce json
// @Param patient_id path string true "Composite patient key"
// @Param Authorization header string true "Bearer token with Doctor role"
// @Success 200 {object} models.PatientProfile
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /doctor/patient/{patient_id} [get]
func (h *HistoryHandler) GetDoctorPatientProfile(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)
	patientID := c.Param("patient_id")

	profile, err := h.history.PatientProfile(c.Request.Context(), email, patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteHistoryItem deletes one record owned by the caller.
// @Summary Delete a single prediction history item
// @Tags history
// @Produce json
// @Param item_id path string true "Record id"
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{} "msg"
// @Failure 400 {object} models.ErrorResponse "Invalid id"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Item not found or not owned"
// @Router /history/item/{item_id} [delete]
func (h *HistoryHandler) DeleteHistoryItem(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)
	itemID := c.Param("item_id")

	if err := h.history.DeleteOwned(c.Request.Context(), itemID, email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Deleted"})
}
