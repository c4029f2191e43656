package health

// healthResponse represents the health status of the API
type healthResponse struct {
	Status    string      `json:"status" example:"ok" enum:"ok,unhealthy"`  // Health status (ok or unhealthy)
	Timestamp string      `json:"timestamp" example:"2024-01-01T12:00:00Z"` // Current server timestamp in RFC3339 format
	Uptime    string      `json:"uptime" example:"2h30m45s"`                // Server uptime since start
	Store     storeStatus `json:"store"`                                    // Backing store reachability
}

// storeStatus reports the configured driver and the result of the last ping
type storeStatus struct {
	Driver string `json:"driver" example:"mongo"`
	Status string `json:"status" example:"ok" enum:"ok,unreachable"`
}
