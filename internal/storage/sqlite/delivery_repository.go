package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"deliverylog/internal/domain/delivery"
)

// DeliveryRepository implements delivery.Repository on top of a SQLite
// database. Rows keep their rowid across upserts, so List preserves
// insertion order even when records are replaced in place.
type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) List(ctx context.Context) ([]delivery.Delivery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, photo_path, date, latitude, longitude
		FROM deliveries
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("select deliveries: %w", err)
	}
	defer rows.Close()

	result := []delivery.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DeliveryRepository) Get(ctx context.Context, id string) (*delivery.Delivery, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, photo_path, date, latitude, longitude
		FROM deliveries
		WHERE id = ?
	`, id)

	d, err := scanDelivery(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, delivery.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select delivery: %w", err)
	}
	return d, nil
}

func (r *DeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, name, description, photo_path, date, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			photo_path = excluded.photo_path,
			date = excluded.date,
			latitude = excluded.latitude,
			longitude = excluded.longitude
	`, d.ID, d.Name, d.Description, d.PhotoPath, d.Date.Format(time.RFC3339Nano), d.Latitude, d.Longitude)
	if err != nil {
		return fmt.Errorf("upsert delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id string) error {
	// Zero rows affected means the id was absent, which is fine.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deliveries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

func scanDelivery(scan func(dest ...any) error) (*delivery.Delivery, error) {
	var d delivery.Delivery
	var date string
	if err := scan(&d.ID, &d.Name, &d.Description, &d.PhotoPath, &date, &d.Latitude, &d.Longitude); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return nil, fmt.Errorf("parse delivery date %q: %w", date, err)
	}
	d.Date = parsed
	return &d, nil
}
