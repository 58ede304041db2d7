package markethandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/coordinator"
	"github.com/orangestand/marketplace/markettypes"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, into interface{}, logger lager.Logger) bool {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		logger.Error("failed-to-unmarshal", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func auctionID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.FormValue(":id"), 10, 64)
}

// statusFor maps the engine's error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, markettypes.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, markettypes.ErrUnknownAuction):
		return http.StatusNotFound
	case errors.Is(err, markettypes.ErrAlreadyFinished):
		return http.StatusConflict
	case errors.Is(err, markettypes.ErrInsufficientFunds),
		errors.Is(err, markettypes.ErrInsufficientAllowance):
		return http.StatusPaymentRequired
	case errors.Is(err, coordinator.ErrInvalidCycleDuration),
		errors.Is(err, coordinator.ErrEmptyItem):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, logger lager.Logger) {
	logger.Error("failed", err)
	writeJSON(w, statusFor(err), errorPresentation{Error: err.Error()})
}

type errorPresentation struct {
	Error string `json:"error"`
}
