// Package entity defines the domain objects served by the audition API and the
// error types shared between the upstream integration layer and the HTTP boundary.
package entity

// Post is a single post as published by the upstream API.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
