package models

import "time"

// Pump represents a CNG station pump registered by an admin.
type Pump struct {
	ID                string    `bson:"id" json:"id"`
	Name              string    `bson:"name" json:"name"`
	Address           string    `bson:"address" json:"address"`
	City              string    `bson:"city" json:"city"`
	Latitude          float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	TotalCapacity     int       `bson:"total_capacity" json:"total_capacity"`
	RemainingCapacity int       `bson:"remaining_capacity" json:"remaining_capacity"` // invariant: 0 <= remaining <= total
	WalkinLanes       int       `bson:"walkin_lanes" json:"walkin_lanes"`
	BookedLanes       int       `bson:"booked_lanes" json:"booked_lanes"`
	Rating            float64   `bson:"rating,omitempty" json:"rating,omitempty"`
	IsOpen            bool      `bson:"is_open" json:"is_open"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// PumpWithDistance is a pump decorated with its distance (km) from a query point.
type PumpWithDistance struct {
	Pump     `bson:",inline"`
	Distance float64 `json:"distance"`
}

// PumpAdmin assigns a pump_admin user to a pump.
type PumpAdmin struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	PumpID    string    `bson:"pump_id" json:"pump_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
