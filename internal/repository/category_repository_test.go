package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/repository"
)

func TestPostgresCategoryRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)

	repo := repository.NewPostgresCategoryRepository(testDB.Pool)
	ctx := context.Background()

	t.Run("add and get category", func(t *testing.T) {
		testDB.TruncateTables(t, "articles", "categories")

		stored, err := repo.AddCategory(ctx, &domain.Category{CategoryName: "Tech"})
		require.NoError(t, err)
		require.NotZero(t, stored.ID)
		assert.False(t, stored.CreatedOn.IsZero())

		got, err := repo.GetCategory(ctx, stored.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Tech", got.CategoryName)
		assert.False(t, got.IsArchived)
	})

	t.Run("get unknown category returns not found", func(t *testing.T) {
		got, err := repo.GetCategory(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get categories where filters in process", func(t *testing.T) {
		testDB.TruncateTables(t, "articles", "categories")

		first, err := repo.AddCategory(ctx, &domain.Category{CategoryName: "Keep"})
		require.NoError(t, err)
		second, err := repo.AddCategory(ctx, &domain.Category{CategoryName: "Drop"})
		require.NoError(t, err)
		require.NoError(t, repo.ArchiveCategory(ctx, second.ID))

		active, err := repo.GetCategoriesWhere(ctx, func(c domain.Category) bool {
			return !c.IsArchived
		})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, first.ID, active[0].ID)

		all, err := repo.GetCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update category refreshes modified on", func(t *testing.T) {
		testDB.TruncateTables(t, "articles", "categories")

		stored, err := repo.AddCategory(ctx, &domain.Category{CategoryName: "Before"})
		require.NoError(t, err)
		assert.Nil(t, stored.ModifiedOn)

		time.Sleep(10 * time.Millisecond)

		stored.CategoryName = "After"
		updated, err := repo.UpdateCategory(ctx, stored)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "After", updated.CategoryName)
		require.NotNil(t, updated.ModifiedOn)
		assert.True(t, updated.ModifiedOn.After(stored.CreatedOn))
	})

	t.Run("update unknown category returns nil", func(t *testing.T) {
		updated, err := repo.UpdateCategory(ctx, &domain.Category{ID: 999999, CategoryName: "Ghost"})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("archive category is idempotent and does not touch articles", func(t *testing.T) {
		testDB.TruncateTables(t, "articles", "categories", "users")
		author := createTestAuthor(t, testDB.Pool)

		cat, err := repo.AddCategory(ctx, &domain.Category{CategoryName: "Tech"})
		require.NoError(t, err)

		articles := repository.NewPostgresArticleRepository(testDB.Pool)
		a := newTestArticle(author, cat.ID, "survives-archive")
		_, err = articles.AddArticle(ctx, &a)
		require.NoError(t, err)

		require.NoError(t, repo.ArchiveCategory(ctx, cat.ID))
		require.NoError(t, repo.ArchiveCategory(ctx, cat.ID))

		got, err := repo.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsArchived)

		remaining, err := articles.GetArticles(ctx)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.False(t, remaining[0].IsArchived)
	})

	t.Run("archive unknown category is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.ArchiveCategory(ctx, 999999))
	})
}
