package domain

// Inventory is the versioned seat pool for one event. AvailableSeats is
// mutated only through version-conditioned writes; Version increases by
// exactly 1 on every successful mutation and serves as the optimistic-lock
// token.
type Inventory struct {
	EventID        string
	Name           string
	TotalSeats     int
	AvailableSeats int
	Version        int64
}
