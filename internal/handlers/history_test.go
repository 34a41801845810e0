package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

func TestGetHistoryRequiresToken(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	w := doJSON(t, router, http.MethodGet, "/history/doc@example.com", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetHistoryRejectsForeignUser(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "other@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodGet, "/history/doc@example.com", nil, headers)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, w)["msg"])
}

func TestGetHistoryReturnsOwnItems(t *testing.T) {
	history := &fakeHistory{items: []models.PredictionRecord{
		{ID: "abc123", PatientName: "Jane Doe", RiskScore: 0.7, RiskLevel: models.RiskHigh, CreatedAt: time.Now()},
	}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodGet, "/history/doc@example.com", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	items, ok := resp["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestGetHistoryStoreFailure(t *testing.T) {
	history := &fakeHistory{listErr: apperrors.Dependency("mongo down", nil)}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodGet, "/history/doc@example.com", nil, headers)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteHistoryItemHappyPath(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodDelete, "/history/item/665f1f77bcf86cd799439011", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted", decodeBody(t, w)["msg"])
}

func TestDeleteHistoryItemForeignOrUnknownIs404(t *testing.T) {
	history := &fakeHistory{deleteErr: apperrors.NotFound("Item not found")}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodDelete, "/history/item/665f1f77bcf86cd799439011", nil, headers)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found", decodeBody(t, w)["msg"])
}

func TestDeleteHistoryItemBadIDIs400(t *testing.T) {
	history := &fakeHistory{deleteErr: apperrors.Validation("Invalid id", nil)}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodDelete, "/history/item/not-an-objectid", nil, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorPatientsRequiresDoctorRole(t *testing.T) {
	lastVisit := time.Now()
	history := &fakeHistory{patients: []models.PatientSummary{
		{PatientID: "doc@example.com::jane doe", PatientName: "Jane Doe", AssessmentCount: 3, LastVisit: &lastVisit},
	}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "nurse@example.com", "", "Nurse")}
	w := doJSON(t, router, http.MethodGet, "/doctor/patients", nil, headers)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, w)["msg"])

	// The role check runs before the chain: the roster must never be
	// queried, let alone leak into the response.
	assert.Zero(t, history.patientsCalls)
	assert.NotContains(t, w.Body.String(), "Jane Doe")
}

func TestDoctorPatientProfileRequiresDoctorRole(t *testing.T) {
	history := &fakeHistory{profile: &models.PatientProfile{PatientName: "Jane Doe"}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "nurse@example.com", "", "Nurse")}
	w := doJSON(t, router, http.MethodGet, "/doctor/patient/doc@example.com::jane%20doe", nil, headers)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, history.profileCalls)
}

func TestDoctorPatientsRequiresToken(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	w := doJSON(t, router, http.MethodGet, "/doctor/patients", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDoctorPatientsReturnsRoster(t *testing.T) {
	lastVisit := time.Now()
	history := &fakeHistory{patients: []models.PatientSummary{
		{PatientID: "doc@example.com::jane doe", PatientName: "Jane Doe", AssessmentCount: 3, LastVisit: &lastVisit},
	}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodGet, "/doctor/patients", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	patients, ok := resp["patients"].([]any)
	require.True(t, ok)
	require.Len(t, patients, 1)
}

func TestDoctorPatientProfile(t *testing.T) {
	history := &fakeHistory{profile: &models.PatientProfile{
		PatientID:   "doc@example.com::jane doe",
		PatientName: "Jane Doe",
		History: []models.PredictionRecord{
			{ID: "abc123", RiskScore: 0.7, RiskLevel: models.RiskHigh},
		},
		Stats: models.PatientStats{AssessmentCount: 1},
	}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, history, &fakeAccounts{})

	headers := map[string]string{"Authorization": bearerFor(t, "doc@example.com", "", "Doctor")}
	w := doJSON(t, router, http.MethodGet, "/doctor/patient/doc@example.com::jane%20doe", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "Jane Doe", resp["patientName"])
}
