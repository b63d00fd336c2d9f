package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"schoolcal-api/domain"
)

// DefaultTodosKey is the namespaced key holding the whole todo list.
const DefaultTodosKey = "schoolcal:todos"

// TodoStore persists the user's reminder list in Redis. The entire list
// lives under one key as a JSON array and is rewritten on every mutation,
// matching how small it stays in practice. Two todos with the same name and
// date are considered duplicates and the second add is a no-op.
type TodoStore struct {
	redis *redis.Client
	key   string
}

// NewTodoStore creates a TodoStore on the given client. An empty key uses
// DefaultTodosKey.
func NewTodoStore(client *redis.Client, key string) *TodoStore {
	if client == nil {
		panic("storage.NewTodoStore: redis client is required")
	}
	if key == "" {
		key = DefaultTodosKey
	}
	return &TodoStore{redis: client, key: key}
}

// Load returns the persisted list. A missing key yields an empty list.
func (s *TodoStore) Load(ctx context.Context) ([]domain.Todo, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return []domain.Todo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	var todos []domain.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	return todos, nil
}

// Add appends the todo unless one with the same name and date already
// exists. It reports whether the list changed.
func (s *TodoStore) Add(ctx context.Context, todo domain.Todo) (bool, error) {
	todos, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range todos {
		if existing.Same(todo) {
			return false, nil
		}
	}
	todos = append(todos, todo)
	if err := s.persist(ctx, todos); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the todo at the given position. It reports whether the
// index was in range.
func (s *TodoStore) Remove(ctx context.Context, index int) (bool, error) {
	todos, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(todos) {
		return false, nil
	}
	todos = append(todos[:index], todos[index+1:]...)
	if err := s.persist(ctx, todos); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether a todo for the given event already exists. The
// UI uses this for its "already added" indicator.
func (s *TodoStore) Contains(ctx context.Context, name, date string) (bool, error) {
	todos, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	probe := domain.Todo{Name: name, Date: date}
	for _, t := range todos {
		if t.Same(probe) {
			return true, nil
		}
	}
	return false, nil
}

func (s *TodoStore) persist(ctx context.Context, todos []domain.Todo) error {
	data, err := json.Marshal(todos)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	return nil
}
