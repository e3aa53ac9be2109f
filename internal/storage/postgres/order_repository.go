package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

const orderColumns = `
	id, status, amount_minor, item_count, paid,
	charge_id, receipt_url, paid_at, created_at, updated_at`

// Create сохраняет заказ и его позиции в одной транзакции. Частичной записи
// не бывает: откат любой из вставок откатывает всё.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, status, amount_minor, item_count, paid, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, string(order.Status), order.AmountMinor, order.ItemCount,
		order.Paid, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, qty, price_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, order.ID, item.ProductID, item.Qty, item.PriceMinor, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

// List возвращает страницу заказов и общее число строк по тому же фильтру.
// Оба запроса используют один предикат, поэтому meta согласована со страницей.
func (r *orderRepository) List(p domain.Pagination) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	p = p.Normalize(domain.DefaultPageLimit)

	where := ""
	countArgs := []any{}
	pageArgs := []any{p.Limit, p.Offset()}
	if p.Status != nil {
		where = " WHERE status = $1"
		countArgs = append(countArgs, string(*p.Status))
		pageArgs = []any{string(*p.Status), p.Limit, p.Offset()}
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+where, countArgs...,
	).Scan(&total); err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	limitClause := " ORDER BY created_at, id LIMIT $1 OFFSET $2"
	if p.Status != nil {
		limitClause = " ORDER BY created_at, id LIMIT $2 OFFSET $3"
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+limitClause, pageArgs...,
	)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, p.Limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return domain.OrderPage{}, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return domain.OrderPage{}, err
		}
		orders[i].Items = items
	}

	return domain.OrderPage{
		Data: orders,
		Meta: domain.NewPageMeta(total, p.Page, p.Limit),
	}, nil
}

// Get возвращает заказ вместе с позициями или ErrOrderNotFound.
func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

// UpdateStatus безусловно перезаписывает статус заказа. Конкурентные апдейты
// разрешаются по принципу "последняя запись побеждает".
func (r *orderRepository) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2,
		    updated_at = $3
		WHERE id = $1
	`, id, string(status), time.Now().UTC())
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return domain.Order{}, err
	}

	return r.Get(id)
}

// MarkPaid фиксирует подтверждение оплаты заказа.
func (r *orderRepository) MarkPaid(id string, payment domain.PaymentInfo) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	paidAt := payment.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET paid = TRUE,
		    charge_id = $2,
		    receipt_url = $3,
		    paid_at = $4,
		    updated_at = $5
		WHERE id = $1
	`, id, payment.ChargeID, payment.ReceiptURL, paidAt, time.Now().UTC())
	if err != nil {
		return domain.Order{}, fmt.Errorf("mark order paid: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return domain.Order{}, err
	}

	return r.Get(id)
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, qty, price_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Qty, &item.PriceMinor, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

// rowScanner покрывает и *sql.Row, и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order      domain.Order
		status     string
		chargeID   sql.NullString
		receiptURL sql.NullString
		paidAt     sql.NullTime
	)

	err := row.Scan(
		&order.ID, &status, &order.AmountMinor, &order.ItemCount, &order.Paid,
		&chargeID, &receiptURL, &paidAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("scan order row: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	order.Payment = domain.PaymentInfo{
		ChargeID:   chargeID.String,
		ReceiptURL: receiptURL.String,
	}
	if paidAt.Valid {
		order.Payment.PaidAt = paidAt.Time.UTC()
	}

	return order, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
