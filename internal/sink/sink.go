package sink

import (
	"context"
	"errors"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
)

var ErrSinkUnavailable = errors.New("order sink unavailable")

// OrderSink delivers a finished order to its destination (mailbox, topic,
// database, operator log). A nil return means the order is handed off; the
// checkout flow branches on the result instead of assuming success.
type OrderSink interface {
	Submit(ctx context.Context, order *domain.Order) error
}

// orderPayload is the hand-off wire shape shared by the log and Kafka sinks.
func orderPayload(order *domain.Order) map[string]interface{} {
	return map[string]interface{}{
		"customer":  order.Customer,
		"items":     order.Items,
		"total":     order.Total,
		"orderDate": order.CreatedAt.Format(time.RFC3339),
	}
}
