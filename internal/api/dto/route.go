package dto

import "time"

type TimeWindowRequest struct {
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

// RouteRequest asks for one optimized route. Omitted destinations mean
// "route the stored stops"; the last destination is the final one.
type RouteRequest struct {
	Start        string                       `json:"start" validate:"omitempty,max=512"`
	Destinations []string                     `json:"destinations" validate:"omitempty,max=100,dive,required,max=512"`
	VisitFirst   string                       `json:"visit_first" validate:"omitempty,max=512"`
	Constraints  map[string]TimeWindowRequest `json:"constraints" validate:"omitempty,dive,keys,required,max=512,endkeys"`
	DepartAt     *time.Time                   `json:"depart_at"`
	Strategy     string                       `json:"strategy" validate:"omitempty,oneof=shortest-path visit-all"`
}

type RouteStopResponse struct {
	Address          string    `json:"address"`
	ArriveAt         time.Time `json:"arrive_at"`
	MinutesFromStart float64   `json:"minutes_from_start"`
}

type DroppedStopResponse struct {
	Address  string     `json:"address"`
	ArriveAt *time.Time `json:"arrive_at,omitempty"`
	Reason   string     `json:"reason"`
}

type RouteResponse struct {
	Start        string                `json:"start"`
	DepartAt     time.Time             `json:"depart_at"`
	Strategy     string                `json:"strategy"`
	Route        []string              `json:"route"`
	Stops        []RouteStopResponse   `json:"stops"`
	Dropped      []DroppedStopResponse `json:"dropped"`
	TotalMinutes float64               `json:"total_minutes"`
}
