package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// EventHandler exposes read access to the committed event stream.
type EventHandler struct {
	log    zerolog.Logger
	stream domain.Log
}

// NewEventHandler wires dependencies for event routes.
func NewEventHandler(stream domain.Log, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		stream: stream,
		log:    log.With().Str("component", "event-handler").Logger(),
	}
}

// ListByIdentity godoc
// @Summary      List events
// @Description  Returns the identity's committed events in emission order.
// @Tags         events
// @Produce      json
// @Param        id      path      string  true   "Identity ID (idn_*)"
// @Param        limit   query     int     false  "Page size (default 100)"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   responses.EventResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities/{id}/events [get]
func (h *EventHandler) ListByIdentity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.stream.ListByIdentity(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		responses.HandleError(c, err, "failed to list events")
		return
	}
	c.JSON(http.StatusOK, responses.NewEventsResponse(events))
}
