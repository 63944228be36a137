package models

// HealthCheckResponse is returned by the liveness route
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
