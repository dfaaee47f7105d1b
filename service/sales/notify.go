package sales

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cardmarket.GO/config"
	salesEntity "cardmarket.GO/model/entity/sales"
)

// Dispatcher receives post-commit order events. Implementations are
// best-effort; errors are logged and dropped.
type Dispatcher interface {
	OrderPlaced(order *salesEntity.Order)
}

// NewDispatcher returns the redis channel dispatcher when redis is
// configured, a log-only dispatcher otherwise.
func NewDispatcher() Dispatcher {
	if config.RedisClient != nil {
		return &redisDispatcher{client: config.RedisClient}
	}
	return &logDispatcher{}
}

type orderEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   uint      `json:"order_id"`
	Email     string    `json:"email"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

const orderChannel = "orders.placed"

type redisDispatcher struct {
	client *redis.Client
}

func (d *redisDispatcher) OrderPlaced(order *salesEntity.Order) {
	ev := orderEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.OrderID,
		Email:     order.CustomerEmail,
		Total:     order.Total,
		Currency:  order.Currency,
		CreatedAt: order.CreatedAt,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := d.client.Publish(config.RedisCtx(), orderChannel, payload).Err(); err != nil {
		log.Printf("notify: publish order %d: %v", order.OrderID, err)
	}
}

type logDispatcher struct{}

func (d *logDispatcher) OrderPlaced(order *salesEntity.Order) {
	log.Printf("order %d placed for %s, total %.2f %s", order.OrderID, order.CustomerEmail, order.Total, order.Currency)
}
