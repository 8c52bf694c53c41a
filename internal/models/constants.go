package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
	TableCleaning  = "cleaning"
)

const (
	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
	ShapeOval      = "oval"
)

const (
	RoleAdmin   = "admin"
	RoleHostess = "hostess"
)

const (
	// MaxGuests верхняя граница количества гостей в одной брони
	MaxGuests = 20

	// MaxDurationHours максимальная длительность брони в часах
	MaxDurationHours = 8.0

	// WorkerQueueSize размер очереди воркера синхронизации
	WorkerQueueSize = 1000

	// AvailabilityCacheTTL время жизни кэша дневной занятости (в секундах)
	AvailabilityCacheTTL = 5 * 60
)

// validTransitions describes which status changes are allowed.
// completed and cancelled are terminal; a no-op (same status) is always fine.
var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether a reservation may move from one status to another.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsReservationStatus reports whether s is one of the known reservation statuses.
func IsReservationStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTableShape reports whether s is one of the known table shapes.
func IsTableShape(s string) bool {
	switch s {
	case ShapeRectangle, ShapeCircle, ShapeOval:
		return true
	}
	return false
}

// IsTableStatus reports whether s is one of the known table statuses.
func IsTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableCleaning:
		return true
	}
	return false
}
