package httpx

import (
	"errors"
	"net/http"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/shared"
)

// RespondError maps backend errors to problem responses. Client errors from
// the backend keep their status; everything else is a bad gateway.
func RespondError(w http.ResponseWriter, err error) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		Problem(w, http.StatusUnauthorized, "Unauthorized", shared.UserSafeMessage(err))
		return
	}
	status := apiclient.StatusCode(err)
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		Problem(w, status, http.StatusText(status), shared.UserSafeMessage(err))
		return
	}
	Problem(w, http.StatusBadGateway, "Bad Gateway", shared.UserSafeMessage(err))
}
