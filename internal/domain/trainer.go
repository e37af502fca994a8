package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is the public profile shown on the map and in the trainer list.
// ID is the owning user's ID.
type Trainer struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Specialization  string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	PricePerSession int64              `bson:"pricePerSession" json:"pricePerSession"` // minor currency units
	Latitude        float64            `bson:"latitude" json:"latitude"`
	Longitude       float64            `bson:"longitude" json:"longitude"`
	PhotoKey        string             `bson:"photoKey,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GeoBounds is a latitude/longitude rectangle used to browse trainers on the map.
type GeoBounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (b GeoBounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Valid reports whether the rectangle is well formed and within WGS84 ranges.
func (b GeoBounds) Valid() bool {
	return b.MinLat <= b.MaxLat && b.MinLng <= b.MaxLng &&
		b.MinLat >= -90 && b.MaxLat <= 90 &&
		b.MinLng >= -180 && b.MaxLng <= 180
}
