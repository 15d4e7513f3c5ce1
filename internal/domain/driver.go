package domain

// Driver represents a driver in the system.
// FleetOwnerID is set when the driver drives for a fleet owner; fee
// liability then falls on the owner's wallet rather than the driver's.
type Driver struct {
	ID           string
	UserID       string
	Name         string
	FleetOwnerID string
	Available    bool
}
