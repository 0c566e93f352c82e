package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptSnapshot signals persisted bytes that do not decode into a valid cart.
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// snapshotLine is the persisted form of a Line; price is written as a JSON number.
type snapshotLine struct {
	ID     ProductID   `json:"id"`
	Title  string      `json:"title"`
	Price  json.Number `json:"price"`
	Image  string      `json:"image"`
	Amount int         `json:"amount"`
}

// EncodeSnapshot serializes the full cart as a JSON array of lines.
func EncodeSnapshot(c Cart) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	lines := make([]snapshotLine, 0, len(c))
	for _, l := range c {
		lines = append(lines, snapshotLine{
			ID:     l.ID,
			Title:  l.Title,
			Price:  json.Number(l.Price.String()),
			Image:  l.Image,
			Amount: l.Amount,
		})
	}
	return json.Marshal(lines)
}

// DecodeSnapshot rebuilds a cart from EncodeSnapshot output. Prices may be numbers or quoted decimals.
func DecodeSnapshot(data []byte) (Cart, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Cart{}, nil
	}
	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if cart == nil {
		cart = Cart{}
	}
	return cart, nil
}
