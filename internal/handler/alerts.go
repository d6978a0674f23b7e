package handler

import (
	"log"
	"net/http"

	"storefront-state-api/internal/model"
	"storefront-state-api/internal/service"
	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// AlertsHandler serves the current low-stock and price-drop lists.
type AlertsHandler struct {
	lowStock   *service.Engine[model.LowStockAlert]
	priceDrops *service.Engine[model.PriceDropAlert]
	scheduler  *service.Scheduler
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(
	lowStock *service.Engine[model.LowStockAlert],
	priceDrops *service.Engine[model.PriceDropAlert],
	scheduler *service.Scheduler,
) *AlertsHandler {
	return &AlertsHandler{lowStock: lowStock, priceDrops: priceDrops, scheduler: scheduler}
}

// AlertsResponse is returned by POST /api/v1/alerts/refresh.
type AlertsResponse struct {
	LowStock   []model.LowStockAlert  `json:"low_stock"`
	PriceDrops []model.PriceDropAlert `json:"price_drops"`
}

// LowStock handles GET /api/v1/alerts/low-stock
func (h *AlertsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	alerts := h.lowStock.Current()
	response.JSONWithMeta(w, http.StatusOK, alerts, len(alerts), 0)
}

// PriceDrops handles GET /api/v1/alerts/price-drops
func (h *AlertsHandler) PriceDrops(w http.ResponseWriter, r *http.Request) {
	alerts := h.priceDrops.Current()
	response.JSONWithMeta(w, http.StatusOK, alerts, len(alerts), 0)
}

// Refresh handles POST /api/v1/alerts/refresh. It runs both engines now. A stale
// result is not an error, the newer cycle's lists are returned.
func (h *AlertsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.RunNow(r.Context()); err != nil && !service.OnlyStale(err) {
		log.Printf("[AlertsHandler] Refresh failed: %v", err)
		response.Error(w, apierror.ServiceUnavailable("catalog is unavailable, alerts were not refreshed"))
		return
	}

	response.OK(w, AlertsResponse{
		LowStock:   h.lowStock.Current(),
		PriceDrops: h.priceDrops.Current(),
	})
}
