package mykafka

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	OrderPlaced        = "order_placed"
	OrderCanceled      = "order_canceled"
	OrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type    string          `json:"type"`
	OrderID uint            `json:"orderID"`
	UserID  uint            `json:"userID"`
	Status  string          `json:"status"`
	Total   decimal.Decimal `json:"total"`
}

func (e OrderEvent) EventType() string { return e.Type }

// Key partitions events by user so one customer's events stay ordered.
func (e OrderEvent) Key() string { return strconv.FormatUint(uint64(e.UserID), 10) }
