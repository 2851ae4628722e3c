package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// DefaultDestination is the mailbox the storefront routes orders to when no
// other destination is configured.
const DefaultDestination = "prickleysofficial254@gmail.com"

// LogSink writes the order payload to the process log, tagged with the
// destination a real dispatcher would route it to.
type LogSink struct {
	destination string
}

func NewLogSink(destination string) *LogSink {
	if destination == "" {
		destination = DefaultDestination
	}
	return &LogSink{destination: destination}
}

func (s *LogSink) Submit(_ context.Context, order *domain.Order) error {
	data, err := json.Marshal(orderPayload(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	log.Printf("order %s submitted to %s: %s", order.ID, s.destination, data)
	return nil
}
