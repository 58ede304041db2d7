package markethandlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/coordinator"
	"github.com/orangestand/marketplace/markettypes"
)

type createAuctionRequest struct {
	Seller               string                       `json:"seller"`
	FungibleEntries      []markettypes.FungibleEntry  `json:"fungible_entries"`
	UniqueEntries        []markettypes.UniqueEntry    `json:"unique_entries"`
	CycleDurationMinutes uint64                       `json:"cycle_duration_minutes"`
	PriceIncrease        uint64                       `json:"price_increase"`
	InitialPrice         uint64                       `json:"initial_price"`
}

type createAuction struct {
	coordinator *coordinator.Coordinator
	operator    string
	logger      lager.Logger
}

func (h *createAuction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("create-auction")
	logger.Info("handling")

	var req createAuctionRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}

	item := markettypes.NewItem()
	for _, entry := range req.FungibleEntries {
		item.AddFungible(entry.Asset, entry.Quantity)
	}
	for _, entry := range req.UniqueEntries {
		item.AddUnique(entry.Asset, entry.Instance)
	}

	id, err := h.coordinator.SetUpAuction(h.operator, item, req.Seller, req.CycleDurationMinutes, req.PriceIncrease, req.InitialPrice)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
	logger.Info("success", lager.Data{"auction-id": id})
}

type getAuction struct {
	coordinator *coordinator.Coordinator
	logger      lager.Logger
}

func (h *getAuction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("get-auction")

	id, err := auctionID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	a := h.coordinator.Auction(id)
	if a == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, presentAuction(a))
	logger.Debug("success", lager.Data{"auction-id": id})
}

type makeBidRequest struct {
	Bidder string `json:"bidder"`
}

type makeBid struct {
	coordinator *coordinator.Coordinator
	operator    string
	logger      lager.Logger
}

func (h *makeBid) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("make-bid")
	logger.Info("handling")

	id, err := auctionID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req makeBidRequest
	if !decodeJSON(w, r, &req, logger) {
		return
	}

	if err := h.coordinator.MakeBid(h.operator, id, req.Bidder); err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, presentAuction(h.coordinator.Auction(id)))
	logger.Info("success", lager.Data{"auction-id": id, "bidder": req.Bidder})
}

type settleAuction struct {
	coordinator *coordinator.Coordinator
	operator    string
	logger      lager.Logger
}

func (h *settleAuction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("settle-auction")
	logger.Info("handling")

	id, err := auctionID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.coordinator.SettleAuction(h.operator, id); err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, presentAuction(h.coordinator.Auction(id)))
	logger.Info("success", lager.Data{"auction-id": id})
}
