package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"custodia-server/services/ledger-api/internal/infrastructure/auth"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
	"custodia-server/services/ledger-api/internal/utils/platformerrors"
)

// callerPrincipal resolves the principal a request acts as: the JWT subject
// when the auth middleware validated a token, else the X-Caller-Address
// header.
func callerPrincipal(c *gin.Context) string {
	if sub := auth.Subject(c); sub != "" {
		return sub
	}
	return strings.TrimSpace(c.GetHeader("X-Caller-Address"))
}

// requireCaller aborts with 401 when the request carries no principal.
func requireCaller(c *gin.Context) (string, bool) {
	caller := callerPrincipal(c)
	if caller == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized,
			"caller principal is required", "handler-caller-001")
		return "", false
	}
	return caller, true
}
