package model

type ImportResponse struct {
	Report ImportReport `json:"report"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
