package models

// ContainerSummary describes one container of the shared infrastructure.
type ContainerSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Image  string   `json:"image"`
	Status string   `json:"status"`
	Health string   `json:"health"`
	Ports  []string `json:"ports"`
}

const (
	HealthUnknown = "unknown"
	ImageUnknown  = "unknown"
)
