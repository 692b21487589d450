// Package models contains the persistence shapes of the domain entities.
// GORM models map to SQL tables (in-memory SQLite or PostgreSQL) and
// documents map to MongoDB collections. Domain entities stay free of
// storage tags; mappers convert in both directions.
//
// Structure:
//   - base.go: BaseModel shared by the GORM models
//   - item.go: inventory items (table and collection "items")
//   - mood.go: mood entries (table and collection "moods")
//   - user.go: accounts (table and collection "users")
package models
