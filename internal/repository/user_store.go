package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/rajveermakkar/justBet-api/internal/model"
)

// GetUser loads a user row by id.  Accounts are owned by the external
// identity service; this read only resolves display data such as the
// seller shown on an auction detail page.
func (s *SQLStore) GetUser(ctx context.Context, id uint64) (*model.User, error) {
    var u model.User
    err := s.db.QueryRowContext(ctx,
        `SELECT id, username, email, role, created_at, updated_at FROM users WHERE id = ?`, id).
        Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}
