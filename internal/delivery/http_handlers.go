package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/internal/usecase"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// viewService is the lifecycle surface every view service exposes.
type viewService interface {
	Refresh(ctx context.Context) error
	Snapshot() usecase.Snapshot
	Close()
}

// handles HTTP requests
type HTTPHandlers struct {
	overview     *usecase.OverviewService
	weekly       *usecase.WeeklyService
	demographics *usecase.DemographicsService
	devices      *usecase.DevicesService
	regions      *usecase.RegionsService
	export       *usecase.ExportService
	views        map[string]viewService
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	overview *usecase.OverviewService,
	weekly *usecase.WeeklyService,
	demographics *usecase.DemographicsService,
	devices *usecase.DevicesService,
	regions *usecase.RegionsService,
	export *usecase.ExportService,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		overview:     overview,
		weekly:       weekly,
		demographics: demographics,
		devices:      devices,
		regions:      regions,
		export:       export,
		views: map[string]viewService{
			"overview":     overview,
			"weekly":       weekly,
			"demographics": demographics,
			"devices":      devices,
			"regions":      regions,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// GetOverview returns the summary cards and the campaign table
func (h *HTTPHandlers) GetOverview(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	snap := h.overview.Snapshot()
	if !h.requireReady(c, snap, "GET", "/views/overview", requestID, start) {
		return
	}

	summary, campaigns := h.overview.BuildReport(ctx, snap.Doc)

	h.metrics.RecordHTTPRequest("GET", "/views/overview", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"summary":   summary,
			"campaigns": campaigns,
		},
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"request_id": requestID,
	})
}

// GetWeekly returns the merged weekly trend series
func (h *HTTPHandlers) GetWeekly(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	snap := h.weekly.Snapshot()
	if !h.requireReady(c, snap, "GET", "/views/weekly", requestID, start) {
		return
	}

	series := h.weekly.BuildSeries(ctx, snap.Doc)

	h.metrics.RecordHTTPRequest("GET", "/views/weekly", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"data":       series,
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"request_id": requestID,
	})
}

// GetDemographics returns the merged age/gender breakdown rows
func (h *HTTPHandlers) GetDemographics(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	snap := h.demographics.Snapshot()
	if !h.requireReady(c, snap, "GET", "/views/demographics", requestID, start) {
		return
	}

	rows := h.demographics.BuildRows(ctx, snap.Doc)

	h.metrics.RecordHTTPRequest("GET", "/views/demographics", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"data":       rows,
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"request_id": requestID,
	})
}

// GetDevices returns the merged device split
func (h *HTTPHandlers) GetDevices(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	snap := h.devices.Snapshot()
	if !h.requireReady(c, snap, "GET", "/views/devices", requestID, start) {
		return
	}

	points := h.devices.BuildSplit(ctx, snap.Doc)

	h.metrics.RecordHTTPRequest("GET", "/views/devices", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"data":       points,
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"request_id": requestID,
	})
}

// GetRegions returns the geocoded bubble-map series for a selectable metric
func (h *HTTPHandlers) GetRegions(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	metric := c.DefaultQuery("metric", usecase.MetricImpressions)

	snap := h.regions.Snapshot()
	if !h.requireReady(c, snap, "GET", "/views/regions", requestID, start) {
		return
	}

	points, err := h.regions.BuildMap(ctx, snap.Doc, metric)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/views/regions", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid metric",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/views/regions", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"data":       points,
		"metric":     metric,
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"request_id": requestID,
	})
}

// RefreshView returns a handler that triggers a re-fetch for one view.
// Refreshes are always explicit; a failed view stays failed until the next one.
func (h *HTTPHandlers) RefreshView(view string) gin.HandlerFunc {
	endpoint := "/views/" + view + "/refresh"

	return func(c *gin.Context) {
		start := time.Now()
		h.metrics.IncHTTPRequestsInFlight()
		defer h.metrics.DecHTTPRequestsInFlight()

		requestID := uuid.New().String()
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

		log := h.logger.WithContext(ctx).WithField("view", view)
		log.Info("Refreshing view")

		svc, ok := h.views[view]
		if !ok {
			h.metrics.RecordHTTPRequest("POST", endpoint, "404", time.Since(start))
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Unknown view",
				"message":    "view " + view + " does not exist",
				"request_id": requestID,
			})
			return
		}

		if err := svc.Refresh(ctx); err != nil {
			if errors.Is(err, usecase.ErrFetchInFlight) {
				h.metrics.RecordHTTPRequest("POST", endpoint, "409", time.Since(start))
				c.JSON(http.StatusConflict, gin.H{
					"error":      "Refresh already in progress",
					"message":    err.Error(),
					"request_id": requestID,
				})
				return
			}

			h.metrics.RecordHTTPRequest("POST", endpoint, "502", time.Since(start))
			log.WithError(err).Error("View refresh failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "Refresh failed",
				"message":    err.Error(),
				"request_id": requestID,
			})
			return
		}

		h.metrics.RecordHTTPRequest("POST", endpoint, "200", time.Since(start))

		c.JSON(http.StatusOK, gin.H{
			"message":    "View refreshed successfully",
			"view":       view,
			"request_id": requestID,
		})
	}
}

// ExportRun pushes a view's current rows to the configured report sink
func (h *HTTPHandlers) ExportRun(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	view := c.Query("view")
	if view == "" {
		h.metrics.RecordHTTPRequest("POST", "/export/run", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing required parameter",
			"message":    "view parameter is required",
			"request_id": requestID,
		})
		return
	}

	records, err := h.export.ExportView(ctx, view)
	if err != nil {
		status, title := exportErrorStatus(err)
		h.metrics.RecordHTTPRequest("POST", "/export/run", strconv.Itoa(status), time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to export report")
		c.JSON(status, gin.H{
			"error":      title,
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/export/run", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"message":    "Export completed successfully",
		"view":       view,
		"records":    records,
		"request_id": requestID,
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()

	apiInfo := gin.H{
		"api_version": "v1",
		"service":     "Amana Marketing Analytics",
		"version":     "1.0.0",
		"description": "Aggregates campaign breakdowns into chart-ready dashboard series",
		"endpoints": gin.H{
			"views": gin.H{
				"description": "Merged, chart-ready datasets, one per dashboard page",
				"methods":     []string{"GET"},
				"endpoints": gin.H{
					"overview": gin.H{
						"path":        "/api/v1/views/overview",
						"description": "Summary metric cards and the campaign table",
					},
					"weekly": gin.H{
						"path":        "/api/v1/views/weekly",
						"description": "Weekly trend series, sorted by week start",
					},
					"demographics": gin.H{
						"path":        "/api/v1/views/demographics",
						"description": "Age/gender breakdown rows, sorted by age group",
					},
					"devices": gin.H{
						"path":        "/api/v1/views/devices",
						"description": "Device split, synthesized for older payloads",
					},
					"regions": gin.H{
						"path":        "/api/v1/views/regions",
						"description": "Geocoded bubble map for a selectable metric",
						"parameters": gin.H{
							"metric": "Optional: impressions (default), clicks, conversions, spend or revenue",
						},
						"example": "/api/v1/views/regions?metric=spend",
					},
				},
			},
			"refresh": gin.H{
				"description": "Explicitly re-fetch a view's marketing document",
				"methods":     []string{"POST"},
				"example":     "/api/v1/views/weekly/refresh",
			},
			"export": gin.H{
				"description": "Push a view's merged rows to the configured sink",
				"methods":     []string{"POST"},
				"endpoints": gin.H{
					"run": gin.H{
						"path":        "/api/v1/export/run",
						"description": "Export the current rows of a view",
						"parameters": gin.H{
							"view": "Required: overview, weekly, demographics, devices or regions",
						},
						"example": "/api/v1/export/run?view=weekly",
					},
				},
			},
		},
		"derived_metrics": gin.H{
			"ctr":             "Click-Through Rate (clicks / impressions * 100)",
			"conversion_rate": "Conversion Rate (conversions / clicks * 100)",
			"cpc":             "Cost Per Click (spend / clicks)",
			"cpa":             "Cost Per Acquisition (spend / conversions)",
			"roas":            "Return on Ad Spend (revenue / spend)",
		},
		"request_id": requestID,
	}

	h.metrics.RecordHTTPRequest("GET", "/api/v1", "200", time.Since(start))
	c.JSON(http.StatusOK, apiInfo)
}

// HealthCheck returns the health status of the service and its views
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()

	views := gin.H{}
	for name, svc := range h.views {
		views[name] = svc.Snapshot().State.String()
	}

	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "amana-marketing",
		"version":    "1.0.0",
		"views":      views,
		"request_id": requestID,
	}

	h.metrics.RecordHTTPRequest("GET", "/health", "200", time.Since(start))
	c.JSON(http.StatusOK, health)
}

// requireReady renders the loading or error placeholder when the view has no
// ready document yet. Returns true when the caller may render data.
func (h *HTTPHandlers) requireReady(c *gin.Context, snap usecase.Snapshot, method, endpoint, requestID string, start time.Time) bool {
	switch snap.State {
	case usecase.StateReady:
		return true

	case usecase.StateFailed:
		h.metrics.RecordHTTPRequest(method, endpoint, "502", time.Since(start))
		c.JSON(http.StatusBadGateway, gin.H{
			"status":     "error",
			"message":    snap.Message,
			"request_id": requestID,
		})
		return false

	default:
		h.metrics.RecordHTTPRequest(method, endpoint, "503", time.Since(start))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "loading",
			"message":    "marketing data is still loading",
			"request_id": requestID,
		})
		return false
	}
}

// exportErrorStatus maps an export failure to its HTTP status and error title.
func exportErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrUnknownView):
		return http.StatusBadRequest, "Unknown view"
	case errors.Is(err, usecase.ErrViewNotReady):
		return http.StatusConflict, "View not ready"
	case errors.Is(err, domain.ErrSinkNotConfigured):
		return http.StatusServiceUnavailable, "Export unavailable"
	default:
		return http.StatusBadGateway, "Export failed"
	}
}
