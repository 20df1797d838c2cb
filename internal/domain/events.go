package domain

const (
	EventLinkCreated   = "affiliate.link.created"
	EventClickTracked  = "affiliate.click.tracked"
	EventSaleRecorded  = "affiliate.sale.recorded"
	EventSaleCancelled = "affiliate.sale.cancelled"
)

func IsEmittedEvent(eventType string) bool {
	switch eventType {
	case EventLinkCreated, EventClickTracked, EventSaleRecorded, EventSaleCancelled:
		return true
	default:
		return false
	}
}

// PartitionKeyPath names the payload field events are partitioned by, so
// consumers see per-affiliate ordering.
func PartitionKeyPath(eventType string) string {
	if IsEmittedEvent(eventType) {
		return "data.affiliate_id"
	}
	return ""
}
