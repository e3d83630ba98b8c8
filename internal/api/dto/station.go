package dto

import "time"

type StationResponse struct {
	StationID   int         `json:"station_id"`
	Address     string      `json:"address"`
	Price       float64     `json:"price"`
	Coordinates Coordinates `json:"coordinates"`
	LastUpdate  *time.Time  `json:"last_update,omitempty"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}
