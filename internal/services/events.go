package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"printstore/internal/domain"
	rabbit "printstore/internal/infra/rabbitmq"
)

type pendingEvent struct {
	routingKey string
	payload    any
}

// outbox collects events inside a transaction attempt. It is flushed only
// after commit.
type outbox struct {
	events []pendingEvent
}

func (o *outbox) reset() {
	o.events = o.events[:0]
}

func (o *outbox) add(routingKey string, payload any) {
	o.events = append(o.events, pendingEvent{routingKey: routingKey, payload: payload})
}

func (o *outbox) statusChanged(orderID string, from, to domain.OrderStatus, cause string, at time.Time) {
	if from == to {
		return
	}
	o.add(domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:    orderID,
		From:       from,
		To:         to,
		Cause:      cause,
		OccurredAt: at,
	})
}

func (o *outbox) totalsRecomputed(order *domain.Order, at time.Time) {
	o.add(domain.EventOrderTotalsRecomputed, domain.OrderTotalsRecomputedEvent{
		OrderID:        order.ID,
		SubTotal:       order.SubTotal,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		Version:        order.Version,
		OccurredAt:     at,
	})
}

type eventPublisher struct {
	publisher rabbit.PublisherInterface
	logger    *zap.Logger
}

// flush publishes committed events. A broker failure never fails the
// request that produced the event.
func (p eventPublisher) flush(ctx context.Context, o *outbox) {
	if p.publisher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, evt := range o.events {
		if err := p.publisher.Publish(ctx, evt.routingKey, evt.payload); err != nil {
			p.logger.Error("failed to publish event",
				zap.String("routing_key", evt.routingKey),
				zap.Error(err))
		}
	}
}
