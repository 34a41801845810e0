package models

// ErrorResponse is the standard error body. The frontend keys off "msg",
// matching the shape of all other endpoints.
type ErrorResponse struct {
	Msg   string `json:"msg" example:"Preprocessing failed"`
	Error string `json:"error,omitempty" example:"columns are missing: {'age_group'}"`
}
