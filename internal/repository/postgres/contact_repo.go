package postgres

import (
	"context"
	"fmt"

	"github.com/adamcc31/portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type contactMessageRepo struct {
	db *pgxpool.Pool
}

func NewContactMessageRepository(db *pgxpool.Pool) domain.ContactMessageRepository {
	return &contactMessageRepo{db: db}
}

func (r *contactMessageRepo) Save(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages
              (id, name, email, subject, message, client_ip, request_id, outcome, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
		msg.ClientIP, msg.RequestID, msg.Outcome, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}

func (r *contactMessageRepo) List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactMessage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, name, email, subject, message, client_ip, request_id, outcome, created_at
              FROM contact_messages
              ORDER BY created_at DESC
              LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0, limit)
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(
			&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message,
			&msg.ClientIP, &msg.RequestID, &msg.Outcome, &msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact messages: %w", err)
	}
	return messages, nil
}
