package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront-state-api/internal/notify"
	"storefront-state-api/pkg/apierror"
	"storefront-state-api/pkg/response"
)

// NotificationsHandler exposes the notification feed for polling clients.
type NotificationsHandler struct {
	feed *notify.Feed
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(feed *notify.Feed) *NotificationsHandler {
	return &NotificationsHandler{feed: feed}
}

// List handles GET /api/v1/notifications?since=<RFC3339>
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.feed.List()

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			response.Error(w, apierror.ValidationError("",
				apierror.FieldError{Field: "since", Message: "must be an RFC3339 timestamp"}))
			return
		}
		items = h.feed.Since(since)
	}

	response.JSONWithMeta(w, http.StatusOK, items, len(items), 0)
}

// Activate handles POST /api/v1/notifications/{id}/activate
func (h *NotificationsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if !h.feed.Activate(chi.URLParam(r, "id")) {
		response.Error(w, apierror.NotFound("notification has no action or has expired"))
		return
	}
	response.NoContent(w)
}
