package infrastructure

import (
	"github.com/MariamShamia2002/amana-marketing/internal/domain"
)

// StaticGeocoder resolves region names against a fixed city table. Names
// missing from the table are reported as unresolved; the map view filters
// those points out.
type StaticGeocoder struct {
	coords map[string]domain.Coordinates
}

// NewStaticGeocoder copies the table, so later mutations by the caller never
// reach the resolver.
func NewStaticGeocoder(table map[string]domain.Coordinates) *StaticGeocoder {
	coords := make(map[string]domain.Coordinates, len(table))
	for name, c := range table {
		coords[name] = c
	}
	return &StaticGeocoder{coords: coords}
}

// implements GeoResolver interface
func (g *StaticGeocoder) Resolve(region string) (domain.Coordinates, bool) {
	c, ok := g.coords[region]
	return c, ok
}

// DefaultCityTable returns the built-in coordinates for the cities the
// campaigns target.
func DefaultCityTable() map[string]domain.Coordinates {
	return map[string]domain.Coordinates{
		"Abu Dhabi":   {Latitude: 24.4539, Longitude: 54.3773},
		"Dubai":       {Latitude: 25.2048, Longitude: 55.2708},
		"Sharjah":     {Latitude: 25.3463, Longitude: 55.4209},
		"Riyadh":      {Latitude: 24.7136, Longitude: 46.6753},
		"Jeddah":      {Latitude: 21.4858, Longitude: 39.1925},
		"Dammam":      {Latitude: 26.4207, Longitude: 50.0888},
		"Doha":        {Latitude: 25.2854, Longitude: 51.5310},
		"Kuwait City": {Latitude: 29.3759, Longitude: 47.9774},
		"Manama":      {Latitude: 26.2285, Longitude: 50.5860},
		"Muscat":      {Latitude: 23.5880, Longitude: 58.3829},
		"Cairo":       {Latitude: 30.0444, Longitude: 31.2357},
		"Alexandria":  {Latitude: 31.2001, Longitude: 29.9187},
		"Amman":       {Latitude: 31.9454, Longitude: 35.9284},
		"Beirut":      {Latitude: 33.8938, Longitude: 35.5018},
		"Baghdad":     {Latitude: 33.3152, Longitude: 44.3661},
		"Casablanca":  {Latitude: 33.5731, Longitude: -7.5898},
		"Tunis":       {Latitude: 36.8065, Longitude: 10.1815},
	}
}
