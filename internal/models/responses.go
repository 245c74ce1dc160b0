package models

import "time"

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// EmailListResponse wraps a list query result.
type EmailListResponse struct {
	Count  int      `json:"count"`
	Emails []*Email `json:"emails"`
}

// ImportResponse summarizes an ingestion run triggered over HTTP.
type ImportResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Fetched    int    `json:"fetched"`
	Stored     int    `json:"stored"`
	Duplicates int    `json:"duplicates"`
	Analyzed   int    `json:"analyzed"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
}

// ErrorResponse is returned for failed API requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
