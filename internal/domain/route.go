package domain

// StopAssignment is what happens at one stop of a fueling plan. Tank levels
// are in litres.
type StopAssignment struct {
	StationID            int
	FuelPurchased        float64
	TankLevelOnArrival   float64
	TankLevelOnDeparture float64
}

// Route is a fueling plan over an ordered stop sequence.
// TotalCost is the sum of price times purchase over all stops.
type Route struct {
	TotalCost float64
	Stops     []StopAssignment
}

// NewRoute assembles a Route. Departure levels are arrival plus purchase.
func NewRoute(totalCost float64, stationIDs []int, purchases, arrivalLevels []float64) *Route {
	stops := make([]StopAssignment, len(stationIDs))
	for i, id := range stationIDs {
		stops[i] = StopAssignment{
			StationID:            id,
			FuelPurchased:        purchases[i],
			TankLevelOnArrival:   arrivalLevels[i],
			TankLevelOnDeparture: arrivalLevels[i] + purchases[i],
		}
	}
	return &Route{TotalCost: totalCost, Stops: stops}
}

// StationIDs lists the stop stations in visiting order.
func (r *Route) StationIDs() []int {
	ids := make([]int, len(r.Stops))
	for i, s := range r.Stops {
		ids[i] = s.StationID
	}
	return ids
}
