package model

import "time"

// TripLock is an advisory lock serializing reservations against one
// trip. The unique _id makes a second concurrent acquire fail with a
// duplicate key error; ExpiresAt bounds the damage of a crashed holder.
type TripLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
