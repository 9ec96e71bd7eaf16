package api

// TranscribeResponse is returned by POST /transcribe on success
type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
