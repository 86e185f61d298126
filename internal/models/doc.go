// Package models defines domain entities shared across the mixcart CLI, TUI, and persistence layers.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Track] : Song metadata from the search service, staged in the cart
//   - [Playlist] : Playlist metadata returned by the provider after creation
//
// 2. Persistent Entities: Database-backed records
//   - [CommitRecord] : Outcome of a playlist commit, including partial-failure state
//
// Track carries both an explicit playable URI and a bare ID; [Track.PlayableURI]
// resolves the one used for track attachment.
package models
