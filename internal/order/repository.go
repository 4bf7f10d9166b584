package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = NewOrderID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, session_id, subtotal, tax_amount, delivery_charge, coupon_amount, total, payment_method, address, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.SessionID, o.Subtotal, o.TaxAmount, o.DeliveryCharge, o.CouponAmount, o.Total, o.PaymentMethod, address, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, category, price, discount_price, gst_rate, quantity)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.Category, it.Price, it.DiscountPrice, it.GSTRate, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var (
		o       Order
		address []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, subtotal, tax_amount, delivery_charge, coupon_amount, total, payment_method, address, status, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.SessionID, &o.Subtotal, &o.TaxAmount, &o.DeliveryCharge, &o.CouponAmount, &o.Total, &o.PaymentMethod, &address, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repo) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, subtotal, tax_amount, delivery_charge, coupon_amount, total, payment_method, address, status, created_at
         FROM orders WHERE session_id = $1 ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var (
			o       Order
			address []byte
		)
		if err := rows.Scan(&o.ID, &o.SessionID, &o.Subtotal, &o.TaxAmount, &o.DeliveryCharge, &o.CouponAmount, &o.Total, &o.PaymentMethod, &address, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(address, &o.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *repo) loadItems(ctx context.Context, orderID string) ([]cart.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, category, price, discount_price, gst_rate, quantity
         FROM order_items WHERE order_id = $1 ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	var items []cart.LineItem
	for rows.Next() {
		var it cart.LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Category, &it.Price, &it.DiscountPrice, &it.GSTRate, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}
