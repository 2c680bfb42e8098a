package handlers

import (
	"errors"
	"net/http"

	"lovelog-backend/pkg/common"
	apperrors "lovelog-backend/pkg/errors"
)

// respondError maps an application error onto the `{message}` contract.
// Untyped errors become an opaque 500 so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		common.RespondMessage(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	common.RespondMessage(w, http.StatusInternalServerError, "server error")
}
