// Package models contains the GORM persistence models and their conversions
// to and from domain types. Models stay inside the persistence layer; the
// rest of the application only sees domain types.
package models
