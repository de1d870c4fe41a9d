package entity

// Status is the fulfillment stage of an order.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Statuses returns the closed status vocabulary in intended progression
// order, with cancelled last.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusPreparing,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	}
}

// Valid reports whether s is part of the status vocabulary. Transitions are
// not restricted beyond membership: an admin may set any valid status at any
// time, and the store resolves racing writers last-write-wins.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
