package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
)

func TestCategoryListCachedAndInvalidated(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		lru := cache.NewLRUCache[[]core.Category](8, time.Minute)
		svc := NewCategoryService(f.repo, lru)

		first, err := svc.List(ctx, testUser, core.CategoryExpense)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(first) != 7 {
			t.Fatalf("expected 7 default expense categories, got %d", len(first))
		}
		if _, err := svc.List(ctx, testUser, core.CategoryExpense); err != nil {
			t.Fatalf("list: %v", err)
		}
		if st := lru.Stats(); st.Hits != 1 || st.Misses != 1 {
			t.Fatalf("cache stats %+v, want one hit and one miss", st)
		}

		if _, err := svc.Create(ctx, testUser, CategoryInput{Name: "Pets", Type: core.CategoryExpense}); err != nil {
			t.Fatalf("create: %v", err)
		}
		after, err := svc.List(ctx, testUser, core.CategoryExpense)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(after) != 8 {
			t.Fatalf("create must invalidate the cached list, got %d categories", len(after))
		}

		others, err := svc.List(ctx, "user-2", "")
		if err != nil {
			t.Fatalf("list other user: %v", err)
		}
		if len(others) != 10 {
			t.Fatalf("other user sees %d categories, want only the 10 defaults", len(others))
		}
	})
}

func TestCategoryDefaultsAreProtected(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		_, err := f.categories.Update(ctx, testUser, "default-food", CategoryPatch{Name: ptr("Groceries")})
		assertKind(t, err, core.KindValidation)
		assertKind(t, f.categories.Delete(ctx, testUser, "default-food"), core.KindValidation)

		if _, err := f.categories.Get(ctx, testUser, "default-food"); err != nil {
			t.Fatalf("default category must stay readable: %v", err)
		}
	})
}

func TestCategoryNamesUnique(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		_, err := f.categories.Create(ctx, testUser, CategoryInput{Name: "salary", Type: core.CategoryIncome})
		assertKind(t, err, core.KindConflict)

		pets, err := f.categories.Create(ctx, testUser, CategoryInput{Name: "Pets", Type: core.CategoryExpense})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		vet, err := f.categories.Create(ctx, testUser, CategoryInput{Name: "Vet", Type: core.CategoryExpense})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err = f.categories.Update(ctx, testUser, vet.ID, CategoryPatch{Name: ptr("PETS")})
		assertKind(t, err, core.KindConflict)

		if _, err := f.categories.Update(ctx, testUser, pets.ID, CategoryPatch{Color: ptr("#000000")}); err != nil {
			t.Fatalf("update own category keeping its name: %v", err)
		}
		if _, err := f.categories.Create(ctx, "user-2", CategoryInput{Name: "Pets", Type: core.CategoryExpense}); err != nil {
			t.Fatalf("names are scoped per user: %v", err)
		}
	})
}

func TestCategoryOwnership(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		c, err := f.categories.Create(ctx, testUser, CategoryInput{Name: "Hobby", Type: core.CategoryExpense, Icon: "🎨"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err = f.categories.Get(ctx, "user-2", c.ID)
		assertKind(t, err, core.KindNotFound)
		assertKind(t, f.categories.Delete(ctx, "user-2", c.ID), core.KindNotFound)

		_, err = f.categories.List(ctx, testUser, "misc")
		assertKind(t, err, core.KindValidation)
		_, err = f.categories.Create(ctx, testUser, CategoryInput{Name: "  ", Type: core.CategoryExpense})
		assertKind(t, err, core.KindValidation)

		if err := f.categories.Delete(ctx, testUser, c.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})
}
