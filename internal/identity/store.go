package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store reads the owners table the external identity layer maintains. The
// write methods exist for that layer (and tests) to drive; nothing in the
// core calls Transfer.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) OwnerOf(ctx context.Context, productID int64) (string, error) {
	var owner string
	err := sqlx.GetContext(ctx, s.db, &owner,
		`SELECT owner FROM owners WHERE product_id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOwnerUnknown
	}
	if err != nil {
		return "", fmt.Errorf("owner lookup: %w", err)
	}
	return owner, nil
}

// SetInitialOwner seeds ownership when a product is minted. Called by the
// product registry inside the creation transaction.
func (s *Store) SetInitialOwner(ctx context.Context, q sqlx.ExtContext, productID int64, owner string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO owners (product_id, owner, updated_at) VALUES (?, ?, ?)`,
		productID, owner, time.Now().UTC(),
	)
	return err
}

// Transfer records an ownership change decided by the external layer.
func (s *Store) Transfer(ctx context.Context, productID int64, newOwner string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE owners SET owner = ?, updated_at = ? WHERE product_id = ?`,
		newOwner, time.Now().UTC(), productID,
	)
	if err != nil {
		return fmt.Errorf("transfer owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOwnerUnknown
	}
	return nil
}
