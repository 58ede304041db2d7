package markethandlers

import (
	"net/http"
	"strconv"

	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/coordinator"
)

type categories struct {
	coordinator *coordinator.Coordinator
	logger      lager.Logger
}

func (h *categories) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbols := h.coordinator.Tracker().AllCategories()
	writeJSON(w, http.StatusOK, symbols)
}

type activeAuctions struct {
	coordinator *coordinator.Coordinator
	logger      lager.Logger
}

// Without a page parameter the full ascending id list comes back; with
// one, a fixed-size window of the largest (most recent) ids first.
func (h *activeAuctions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := r.FormValue(":symbol")

	if rawPage := r.URL.Query().Get("page"); rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, h.coordinator.Tracker().RecentActiveAuctions(symbol, page))
		return
	}

	writeJSON(w, http.StatusOK, h.coordinator.AllActiveAuctions(symbol))
}

type tokenOccurrence struct {
	coordinator *coordinator.Coordinator
	logger      lager.Logger
}

func (h *tokenOccurrence) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coordinator.Tracker().TokenOccurrence())
}
