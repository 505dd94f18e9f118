package model

import "time"

// Farm is the authorization anchor for every assessment and checklist.
// Each farm has exactly one owning farmer and at most one assigned vet.
// FarmerName and VetName are filled by listing queries that join the
// users table; they are empty when the referenced user is missing.
type Farm struct {
    ID          uint64    // farms.id
    Name        string    // farms.name
    Location    string    // farms.location
    AnimalCount int       // farms.animal_count
    FarmerID    uint64    // farms.farmer_id
    VetID       *uint64   // farms.vet_id (nullable)
    CreatedAt   time.Time // farms.created_at

    FarmerName string
    VetName    string
}

// HasVet reports whether a vet is assigned to the farm.
func (f *Farm) HasVet() bool { return f.VetID != nil && *f.VetID != 0 }
