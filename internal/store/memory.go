package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// MemoryStore keeps every account in process memory in creation order. It
// implements all repository interfaces and is selected by the "memory://"
// DSN. Values handed out are deep copies, so callers never alias stored
// state.
type MemoryStore struct {
	mu     sync.RWMutex
	users  []models.User
	logger *logger.Logger
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{logger: log}
}

func (m *MemoryStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexByEmail(user.Email) >= 0 {
		return models.User{}, ErrEmailAlreadyExists
	}
	if len(m.users) == 0 {
		user.Role = models.RoleAdmin
	}
	user.Tasks = []models.Task{}

	m.users = append(m.users, cloneUser(user))
	return cloneUser(user), nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexByEmail(email)
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	return cloneUser(m.users[i]), nil
}

func (m *MemoryStore) FindUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexByID(id)
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	return cloneUser(m.users[i]), nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, id string, update models.UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByID(id)
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	if update.Email != nil {
		if j := m.indexByEmail(*update.Email); j >= 0 && j != i {
			return models.User{}, ErrEmailAlreadyExists
		}
	}

	user := &m.users[i]
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.SecretKey != nil {
		user.SecretKey = *update.SecretKey
	}
	user.UpdatedAt = time.Now().UTC()

	return cloneUser(*user), nil
}

func (m *MemoryStore) HasUsers(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users) > 0, nil
}

func (m *MemoryStore) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Role == role {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (m *MemoryStore) AppendTask(_ context.Context, userID string, task models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByID(userID)
	if i < 0 {
		return models.Task{}, ErrUserNotFound
	}
	m.users[i].Tasks = append(m.users[i].Tasks, cloneTask(task))
	return cloneTask(task), nil
}

func (m *MemoryStore) SetTaskStatus(_ context.Context, userID, taskID string, status models.TaskStatus, at time.Time) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByID(userID)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}

	tasks := m.users[i].Tasks
	j := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == taskID })
	if j < 0 {
		return models.Task{}, ErrTaskNotFound
	}

	tasks[j].Status = status
	tasks[j].UpdatedAt = at
	return cloneTask(tasks[j]), nil
}

func (m *MemoryStore) ResetUsers(_ context.Context, users []models.User) error {
	fresh := make([]models.User, 0, len(users))
	for _, u := range users {
		if slices.ContainsFunc(fresh, func(f models.User) bool { return f.Email == u.Email }) {
			return ErrEmailAlreadyExists
		}
		if u.Tasks == nil {
			u.Tasks = []models.Task{}
		}
		fresh = append(fresh, cloneUser(u))
	}

	m.mu.Lock()
	m.users = fresh
	m.mu.Unlock()

	m.logger.Info().Str("func", "MemoryStore.ResetUsers").Int("users", len(users)).Msg("store seeded")
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryStore) indexByEmail(email string) int {
	return slices.IndexFunc(m.users, func(u models.User) bool { return u.Email == email })
}

func (m *MemoryStore) indexByID(id string) int {
	return slices.IndexFunc(m.users, func(u models.User) bool { return u.ID == id })
}

func cloneUser(u models.User) models.User {
	tasks := make([]models.Task, len(u.Tasks))
	for i, t := range u.Tasks {
		tasks[i] = cloneTask(t)
	}
	u.Tasks = tasks
	return u
}

func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
