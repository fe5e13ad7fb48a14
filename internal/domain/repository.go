package domain

import (
	"context"
	"errors"
)

// ErrSinkNotConfigured is returned by export clients when no sink URL is set.
var ErrSinkNotConfigured = errors.New("sink URL not configured")

// interface for fetching the upstream marketing document
type MarketingClient interface {
	FetchMarketingData(ctx context.Context) (*MarketingData, error)
}

// interface for resolving region names to map coordinates
type GeoResolver interface {
	Resolve(region string) (Coordinates, bool)
}

// interface for pushing rendered view payloads to an external sink
type ExportClient interface {
	Export(ctx context.Context, view string, payload any) error
}
