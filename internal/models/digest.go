package models

import "time"

// Digest is the final message of one run: a short title and a markdown body.
type Digest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Envelope is a digest as it leaves the process over Kafka or the API.
type Envelope struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewEnvelope stamps d with an id and generation time.
func NewEnvelope(id string, d Digest, at time.Time) Envelope {
	return Envelope{ID: id, Title: d.Title, Body: d.Body, GeneratedAt: at.UTC()}
}
