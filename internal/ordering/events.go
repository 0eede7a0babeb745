package ordering

import "time"

// TopicOrderCommitted is the bus topic published once per committed
// order, after the transaction is durable.
const TopicOrderCommitted = "order.committed"

// CommittedEvent is the payload of TopicOrderCommitted.
type CommittedEvent struct {
	OrderID     int64
	StoreID     int64
	TotalAmount int
	OrderedAt   time.Time
}
