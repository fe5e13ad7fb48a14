package domain

// Coordinates is a WGS84 latitude/longitude pair for a map bubble.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
