package mockreddit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/reddit-search-go/internal/models"
)

func TestSearcher(t *testing.T) {
	s := New().
		WithPosts("canned", models.Post{Title: "only"}).
		WithError("broken", errors.New("boom"))

	t.Run("Generated results honour the limit", func(t *testing.T) {
		posts, err := s.Search(context.Background(), "golang", 3)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "golang - Result 1", posts[0].Title)
	})

	t.Run("Canned results", func(t *testing.T) {
		posts, err := s.Search(context.Background(), "canned", 5)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "only", posts[0].Title)
	})

	t.Run("Error", func(t *testing.T) {
		_, err := s.Search(context.Background(), "broken", 5)
		assert.EqualError(t, err, "boom")
	})

	assert.Equal(t, []string{"golang", "canned", "broken"}, s.Calls())
}
