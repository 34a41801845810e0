package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

func TestSignupHappyPath(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	body := models.SignupRequest{Name: "Dr. Who", Email: "doc@example.com", Password: "password123"}
	w := doJSON(t, router, http.MethodPost, "/signup", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signup successful", decodeBody(t, w)["msg"])
}

func TestSignupDuplicateEmailIs400(t *testing.T) {
	accounts := &fakeAccounts{signupErr: apperrors.Validation("User already exists", nil)}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, accounts)

	body := models.SignupRequest{Name: "Dr. Who", Email: "doc@example.com", Password: "password123"}
	w := doJSON(t, router, http.MethodPost, "/signup", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decodeBody(t, w)["msg"])
}

func TestSignupMissingFieldsIs400(t *testing.T) {
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, &fakeAccounts{})

	w := doJSON(t, router, http.MethodPost, "/signup", map[string]any{"email": "doc@example.com"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHappyPath(t *testing.T) {
	accounts := &fakeAccounts{loginResp: &models.LoginResponse{Token: "tok", Name: "Dr. Who", Role: "Doctor"}}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, accounts)

	body := models.LoginRequest{Email: "doc@example.com", Password: "password123"}
	w := doJSON(t, router, http.MethodPost, "/login", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "tok", resp["token"])
	assert.Equal(t, "Dr. Who", resp["name"])
	assert.Equal(t, "Doctor", resp["role"])
}

func TestLoginUnknownUserIs404(t *testing.T) {
	accounts := &fakeAccounts{loginErr: apperrors.NotFound("User not found")}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, accounts)

	body := models.LoginRequest{Email: "ghost@example.com", Password: "password123"}
	w := doJSON(t, router, http.MethodPost, "/login", body, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["msg"])
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	accounts := &fakeAccounts{loginErr: apperrors.Auth("Incorrect password", nil)}
	router := testRouter(defaultPredictor(), &fakeExplainer{}, &fakeHistory{}, accounts)

	body := models.LoginRequest{Email: "doc@example.com", Password: "wrong"}
	w := doJSON(t, router, http.MethodPost, "/login", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", decodeBody(t, w)["msg"])
}
