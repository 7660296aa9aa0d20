package dto

import "github.com/staffhub/backend/internal/models"

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// PageResponse carries one page plus the exact total for the filter.
type PageResponse struct {
	OK       bool `json:"ok"`
	Data     any  `json:"data"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
}

type QRTokenResponse struct {
	Token    *models.QRToken `json:"token"`
	ShareURL string          `json:"share_url"`
}
