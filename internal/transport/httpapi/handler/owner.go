package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Fuzara/cashcraft/internal/ledger"
	"github.com/Fuzara/cashcraft/internal/transport/httpapi/middleware"
)

// ownerFromRequest resolves the authenticated caller into the ledger
// owner principal. Returns false after writing a 401 if the request
// carries no authenticated user.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (ledger.Owner, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return ledger.Owner{}, false
	}
	return ledger.PrincipalOwner(userID), true
}

// pathID parses the {id} URL parameter as an int64. Returns false
// after writing a 400 on malformed input.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
