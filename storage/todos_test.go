package storage

import (
	"context"
	"testing"

	"schoolcal-api/domain"
)

func TestTodoStoreLoadEmptyKey(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTodoStore(client, "")

	todos, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("expected empty list, got %#v", todos)
	}
}

func TestTodoStoreAddIsIdempotent(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTodoStore(client, "")
	ctx := context.Background()

	todo := domain.Todo{ID: "a", Name: "Book Fair", Date: "2024-03-18"}

	added, err := store.Add(ctx, todo)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added {
		t.Fatal("expected first add to report a change")
	}

	dup := domain.Todo{ID: "b", Name: "Book Fair", Date: "2024-03-18", Description: "different copy"}
	added, err = store.Add(ctx, dup)
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if added {
		t.Fatal("expected duplicate add to be a no-op")
	}

	todos, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo after duplicate add, got %d", len(todos))
	}
	if todos[0].ID != "a" {
		t.Fatalf("expected original todo kept, got %#v", todos[0])
	}
}

func TestTodoStoreSameNameDifferentDateIsDistinct(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTodoStore(client, "")
	ctx := context.Background()

	for _, date := range []string{"2024-03-18", "2024-04-18"} {
		added, err := store.Add(ctx, domain.Todo{Name: "Book Fair", Date: date})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if !added {
			t.Fatalf("expected add for date %s to succeed", date)
		}
	}

	todos, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
}

func TestTodoStoreRemove(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTodoStore(client, "")
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := store.Add(ctx, domain.Todo{Name: name, Date: "2024-03-18"}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	removed, err := store.Remove(ctx, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Fatal("expected index 1 to be removed")
	}

	todos, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(todos) != 2 || todos[0].Name != "first" || todos[1].Name != "third" {
		t.Fatalf("unexpected list after remove: %#v", todos)
	}

	for _, index := range []int{-1, 2, 10} {
		removed, err := store.Remove(ctx, index)
		if err != nil {
			t.Fatalf("remove out of range: %v", err)
		}
		if removed {
			t.Fatalf("expected index %d to be out of range", index)
		}
	}
}

func TestTodoStoreContains(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTodoStore(client, "")
	ctx := context.Background()

	if _, err := store.Add(ctx, domain.Todo{Name: "Picture Day", Date: "2024-04-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := store.Contains(ctx, "Picture Day", "2024-04-01")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !ok {
		t.Fatal("expected contains to report true")
	}

	ok, err = store.Contains(ctx, "Picture Day", "2024-05-01")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if ok {
		t.Fatal("expected contains to report false for other date")
	}
}

func TestTodoStorePersistsAcrossInstances(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	first := NewTodoStore(client, "test:todos")
	if _, err := first.Add(ctx, domain.Todo{Name: "Spirit Day", Date: "2024-03-22"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	second := NewTodoStore(client, "test:todos")
	todos, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(todos) != 1 || todos[0].Name != "Spirit Day" {
		t.Fatalf("unexpected todos from fresh instance: %#v", todos)
	}
}
