package service

import (
	"context"
	"errors"
	"fmt"

	"ingestd/internal/database"
	"ingestd/internal/model"
	"ingestd/internal/store"

	"github.com/jackc/pgx/v5"
)

// DefaultUserName is the reserved account that owns documents ingested
// without an authenticated caller.
const DefaultUserName = "ingest"

var (
	getUserByName = store.GetUserByName
	createUser    = store.CreateUser
)

// DefaultUser resolves the reserved ingest user, creating it on first
// use. The account has no password and cannot log in.
func DefaultUser(ctx context.Context, db database.DB) (*model.User, error) {
	u, err := getUserByName(ctx, db, DefaultUserName)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("DefaultUser: %w", err)
	}
	u, err = createUser(ctx, db, &model.User{
		Name:  DefaultUserName,
		Email: DefaultUserName + "@localhost",
	})
	if err != nil {
		return nil, fmt.Errorf("DefaultUser: %w", err)
	}
	return u, nil
}
