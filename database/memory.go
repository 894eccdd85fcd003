package database

import (
	"context"
	"strings"
	"sync"

	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/google/uuid"
)

// MemoryDB keeps users, the receipt ledger and the company status in
// process memory. It offers the same methods as DB.
type MemoryDB struct {
	mu       sync.RWMutex
	users    []access.User
	receipts []tax.Receipt
	status   tax.CompanyStatus
}

func NewMemoryDB(seed ...access.User) *MemoryDB {
	users := make([]access.User, len(seed))
	copy(users, seed)

	return &MemoryDB{
		users:  users,
		status: tax.StatusUnknown,
	}
}

func (m *MemoryDB) FindAllUsers(ctx context.Context) ([]access.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]access.User, len(m.users))
	copy(out, m.users)

	return out, nil
}

func (m *MemoryDB) FindUserByID(ctx context.Context, id string) (access.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}

	return access.User{}, ErrNotFound
}

func (m *MemoryDB) FindUserByEmail(ctx context.Context, email string) (access.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return access.User{}, ErrNotFound
}

func (m *MemoryDB) emailTaken(email, exceptID string) bool {
	for _, u := range m.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}

	return false
}

func (m *MemoryDB) CreateUser(ctx context.Context, u access.User) (access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	for _, existing := range m.users {
		if existing.ID == u.ID {
			return access.User{}, ErrDuplicate
		}
	}

	if m.emailTaken(u.Email, "") {
		return access.User{}, ErrDuplicate
	}

	m.users = append(m.users, u)

	return u, nil
}

func (m *MemoryDB) UpdateUser(ctx context.Context, u access.User) (access.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID != u.ID {
			continue
		}

		if m.emailTaken(u.Email, u.ID) {
			return access.User{}, ErrDuplicate
		}

		m.users[i] = u

		return u, nil
	}

	return access.User{}, ErrNotFound
}

func (m *MemoryDB) AddReceipt(ctx context.Context, r tax.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.receipts {
		if existing.ID == r.ID {
			return ErrDuplicate
		}
	}

	m.receipts = append(m.receipts, r)

	return nil
}

func (m *MemoryDB) FindAllReceipts(ctx context.Context) ([]tax.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]tax.Receipt, 0, len(m.receipts))
	for i := len(m.receipts) - 1; i >= 0; i-- {
		out = append(out, m.receipts[i])
	}

	return out, nil
}

func (m *MemoryDB) GetCompanyStatus(ctx context.Context) (tax.CompanyStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.status, nil
}

func (m *MemoryDB) SetCompanyStatus(ctx context.Context, status tax.CompanyStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = status

	return nil
}
