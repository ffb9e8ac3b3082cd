package health

// Response represents the health check response
type Response struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version,omitempty"`
	Classifiers int    `json:"classifiers"`
	Clients     int    `json:"clients"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// reports the numbers shown in the health response
type Stats interface {
	ClassifierCount() int
	ClientCount() int
}
