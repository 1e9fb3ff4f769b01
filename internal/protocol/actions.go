package protocol

// Action names carried in ACT.action.
const (
	ActAdvanceDay       = "ADVANCE_DAY"
	ActSailTo           = "SAIL_TO"
	ActSailToCove       = "SAIL_TO_COVE"
	ActDock             = "DOCK"
	ActUndock           = "UNDOCK"
	ActDockCove         = "DOCK_COVE"
	ActCoveService      = "COVE_SERVICE"
	ActExplore          = "EXPLORE"
	ActBuy              = "BUY"
	ActSell             = "SELL"
	ActAcceptContract   = "ACCEPT_CONTRACT"
	ActAbandonContract  = "ABANDON_CONTRACT"
	ActStartQuestline   = "START_QUESTLINE"
	ActAbandonQuestline = "ABANDON_QUESTLINE"
	ActHire             = "HIRE"
	ActFire             = "FIRE"
	ActBuyUpgrade       = "BUY_UPGRADE"
	ActBuyShip          = "BUY_SHIP"
	ActRepair           = "REPAIR"
	ActRepairAtSea      = "REPAIR_AT_SEA"
	ActPayPardon        = "PAY_PARDON"
	ActRollEncounter    = "ROLL_ENCOUNTER"
	ActRespond          = "RESPOND"
	ActStartChase       = "START_CHASE"
	ActChase            = "CHASE"
	ActChaseTick        = "CHASE_TICK"
	ActQuery            = "QUERY"
	ActSave             = "SAVE"
	ActSubmitScore      = "SUBMIT_SCORE"
	ActRetire           = "RETIRE"
)

// Actions lists every action in the order WELCOME advertises them.
var Actions = []string{
	ActAdvanceDay, ActSailTo, ActSailToCove, ActDock, ActUndock, ActDockCove,
	ActCoveService, ActExplore, ActBuy, ActSell, ActAcceptContract,
	ActAbandonContract, ActStartQuestline, ActAbandonQuestline, ActHire, ActFire,
	ActBuyUpgrade, ActBuyShip, ActRepair, ActRepairAtSea, ActPayPardon,
	ActRollEncounter, ActRespond, ActStartChase, ActChase, ActChaseTick,
	ActQuery, ActSave, ActSubmitScore, ActRetire,
}

// Query names for ACT QUERY.
const (
	QueryPrices      = "prices"
	QueryDeals       = "deals"
	QueryCapacity    = "capacity"
	QueryRouteRisk   = "route_risk"
	QueryTitles      = "titles"
	QueryNotoriety   = "notoriety"
	QueryBoard       = "board"
	QueryQuests      = "quests"
	QueryStats       = "stats"
	QueryPending     = "pending"
	QueryDrift       = "drift"
	QueryLeaderboard = "leaderboard"
)

var Queries = []string{
	QueryPrices, QueryDeals, QueryCapacity, QueryRouteRisk, QueryTitles,
	QueryNotoriety, QueryBoard, QueryQuests, QueryStats, QueryPending, QueryDrift, QueryLeaderboard,
}
