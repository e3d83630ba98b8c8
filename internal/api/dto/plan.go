package dto

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlanRequest is the POST /plans body. Departure and Arrival may be omitted
// when WaypointIDs names the stations to route through.
type PlanRequest struct {
	Departure       *Coordinates `json:"departure"`
	Arrival         *Coordinates `json:"arrival"`
	WaypointIDs     []int        `json:"waypoint_ids"`
	FuelEfficiency  float64      `json:"fuel_efficiency"`
	TankCapacity    float64      `json:"tank_capacity"`
	MinimumPurchase float64      `json:"minimum_purchase"`
	AutonomyMargin  float64      `json:"autonomy_margin"`
	InitialFuel     float64      `json:"initial_fuel"`
	SegmentLength   float64      `json:"segment_length"`
	SearchDistance  float64      `json:"search_distance"`
}

type PlanStopResponse struct {
	StationID            int         `json:"station_id"`
	Address              string      `json:"address"`
	Price                float64     `json:"price"`
	Coordinates          Coordinates `json:"coordinates"`
	FuelPurchased        float64     `json:"fuel_purchased"`
	TankLevelOnArrival   float64     `json:"tank_level_on_arrival"`
	TankLevelOnDeparture float64     `json:"tank_level_on_departure"`
}

type CandidateResponse struct {
	StationID   int         `json:"station_id"`
	Address     string      `json:"address"`
	Price       float64     `json:"price"`
	Coordinates Coordinates `json:"coordinates"`
	PathIndex   int         `json:"path_index"`
	PositionKm  float64     `json:"position_km"`
	IsStop      bool        `json:"is_stop"`
}

// MapView centres a web map on the routed path.
type MapView struct {
	Center Coordinates `json:"center"`
	Zoom   int         `json:"zoom"`
}

type PlanResponse struct {
	TotalCost    float64             `json:"total_cost"`
	BaselineCost float64             `json:"baseline_cost"`
	Savings      float64             `json:"savings"`
	DistanceKm   float64             `json:"distance_km"`
	Stops        []PlanStopResponse  `json:"stops"`
	Candidates   []CandidateResponse `json:"candidates"`
	Path         [][]float64         `json:"path"`
	View         MapView             `json:"view"`
}
