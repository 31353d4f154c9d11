package credentials

import (
	"fmt"

	"github.com/Skotchmaster/product_management/internal/config"
	"github.com/Skotchmaster/product_management/internal/hash"
	"github.com/Skotchmaster/product_management/internal/models"
)

// Store holds the two configured accounts. Passwords are bcrypt-hashed at
// construction so the plaintext never outlives startup.
type Store struct {
	users []entry
}

type entry struct {
	user         models.User
	passwordHash string
}

func NewStore(cfg *config.Config) (*Store, error) {
	accounts := []struct {
		id  int
		acc config.Account
	}{
		{1, cfg.ReadWriteAccount},
		{2, cfg.ReadOnlyAccount},
	}

	s := &Store{}
	for _, a := range accounts {
		h, err := hash.HashPassword(a.acc.Password)
		if err != nil {
			return nil, fmt.Errorf("cannot hash password for %s: %w", a.acc.Username, err)
		}
		s.users = append(s.users, entry{
			user: models.User{
				ID:       a.id,
				Username: a.acc.Username,
				Role:     a.acc.Role,
			},
			passwordHash: h,
		})
	}

	return s, nil
}

// Authenticate returns the matching user or nil on a bad pair.
func (s *Store) Authenticate(username, password string) *models.User {
	for _, e := range s.users {
		if e.user.Username == username && hash.CheckPassword(e.passwordHash, password) {
			u := e.user
			return &u
		}
	}
	return nil
}
