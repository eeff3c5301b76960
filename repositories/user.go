//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, name, avatarRef string) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// StoredUser is the on-disk representation of a directory entry.
type StoredUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarRef string `json:"avatar_ref"`
	CreatedAt int64  `json:"created_at"`
}

// CreateUser registers a new participant under a freshly generated id.
func (u *UserRepository) CreateUser(ctx context.Context, name, avatarRef string) (domain.User, error) {
	return u.SaveUser(ctx, domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		AvatarRef: avatarRef,
	})
}

// SaveUser creates or updates the profile of user.ID.
// The creation date of an existing entry is preserved.
func (u *UserRepository) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	if err := validUserID(user.ID); err != nil {
		return domain.User{}, err
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.ID)
		createdAt := time.Now().UTC()
		item, err := txn.Get(key)
		switch {
		case err == nil:
			var existing StoredUser
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return err
			}
			createdAt = time.Unix(0, existing.CreatedAt).UTC()
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		user.CreatedAt = createdAt

		data, err := json.Marshal(fromUser(user))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return domain.User{}, unavailable(err)
	}
	return user, nil
}

// GetUser returns ErrUnknownUser when no entry exists for userID.
func (u *UserRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	if err := validUserID(userID); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUnknownUser, userID)
	}

	var stored StoredUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUnknownUser, userID)
	}
	if err != nil {
		return domain.User{}, unavailable(err)
	}
	return toUser(stored), nil
}

func fromUser(user domain.User) StoredUser {
	return StoredUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarRef: user.AvatarRef,
		CreatedAt: user.CreatedAt.UnixNano(),
	}
}

func toUser(stored StoredUser) domain.User {
	return domain.User{
		ID:        stored.ID,
		Name:      stored.Name,
		AvatarRef: stored.AvatarRef,
		CreatedAt: time.Unix(0, stored.CreatedAt).UTC(),
	}
}
