package orders

type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCancelled  Status = "cancelled"
)

// Transitions are not validated: any status string is accepted on update.
// The only status the workflow inspects is "cancelled", which is terminal
// and triggers a stock release exactly once.
func (s Status) Cancelled() bool { return s == StatusCancelled }
