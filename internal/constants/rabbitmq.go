package constants

const (
	TrackerExchange = "tracker_exchange"

	RoutingKeyNewHouses = "new_houses"
)
