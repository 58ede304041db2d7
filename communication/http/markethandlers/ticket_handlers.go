package markethandlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/coordinator"
)

type ticketRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type createTickets struct {
	coordinator *coordinator.Coordinator
	operator    string
	logger      lager.Logger
}

func (h *createTickets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("create-tickets")
	logger.Info("handling")

	var req ticketRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}

	if err := h.coordinator.CreateTickets(h.operator, req.Account, req.Amount); err != nil {
		writeError(w, err, logger)
		return
	}

	w.WriteHeader(http.StatusCreated)
	logger.Info("success", lager.Data{"account": req.Account, "amount": req.Amount})
}

type redeemTickets struct {
	coordinator *coordinator.Coordinator
	operator    string
	logger      lager.Logger
}

func (h *redeemTickets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("redeem-tickets")
	logger.Info("handling")

	var req ticketRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}

	if err := h.coordinator.RedeemTickets(h.operator, req.Account, req.Amount); err != nil {
		writeError(w, err, logger)
		return
	}

	w.WriteHeader(http.StatusOK)
	logger.Info("success", lager.Data{"account": req.Account, "amount": req.Amount})
}
