package markethandlers

import (
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/tedsuo/rata"

	"github.com/orangestand/marketplace/communication/http/routes"
	"github.com/orangestand/marketplace/coordinator"
)

// New wires the coordinator behind the engine's HTTP call surface.
// The handlers drive the coordinator as the caller identified by
// operator, so the privileged entry points remain owner-gated end to
// end.
func New(coord *coordinator.Coordinator, operator string, logger lager.Logger) rata.Handlers {
	return rata.Handlers{
		routes.CreateAuction: &createAuction{coordinator: coord, operator: operator, logger: logger},
		routes.GetAuction:    &getAuction{coordinator: coord, logger: logger},
		routes.MakeBid:       &makeBid{coordinator: coord, operator: operator, logger: logger},
		routes.SettleAuction: &settleAuction{coordinator: coord, operator: operator, logger: logger},

		routes.Categories:      &categories{coordinator: coord, logger: logger},
		routes.ActiveAuctions:  &activeAuctions{coordinator: coord, logger: logger},
		routes.TokenOccurrence: &tokenOccurrence{coordinator: coord, logger: logger},

		routes.CreateTickets: &createTickets{coordinator: coord, operator: operator, logger: logger},
		routes.RedeemTickets: &redeemTickets{coordinator: coord, operator: operator, logger: logger},
	}
}

// NewRouter builds the ready-to-serve handler.
func NewRouter(coord *coordinator.Coordinator, operator string, logger lager.Logger) (http.Handler, error) {
	return rata.NewRouter(routes.Routes, New(coord, operator, logger))
}
