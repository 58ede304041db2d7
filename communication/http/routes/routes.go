package routes

import "github.com/tedsuo/rata"

const (
	CreateAuction = "CREATE_AUCTION"
	GetAuction    = "GET_AUCTION"
	MakeBid       = "MAKE_BID"
	SettleAuction = "SETTLE_AUCTION"

	ActiveAuctions  = "ACTIVE_AUCTIONS"
	Categories      = "CATEGORIES"
	TokenOccurrence = "TOKEN_OCCURRENCE"

	CreateTickets = "CREATE_TICKETS"
	RedeemTickets = "REDEEM_TICKETS"
)

var Routes = rata.Routes{
	{Path: "/auctions", Method: "POST", Name: CreateAuction},
	{Path: "/auctions/:id", Method: "GET", Name: GetAuction},
	{Path: "/auctions/:id/bids", Method: "POST", Name: MakeBid},
	{Path: "/auctions/:id/settle", Method: "POST", Name: SettleAuction},

	{Path: "/categories", Method: "GET", Name: Categories},
	{Path: "/categories/:symbol/auctions", Method: "GET", Name: ActiveAuctions},
	{Path: "/occurrences", Method: "GET", Name: TokenOccurrence},

	{Path: "/tickets", Method: "POST", Name: CreateTickets},
	{Path: "/tickets", Method: "DELETE", Name: RedeemTickets},
}
