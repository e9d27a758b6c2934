package graphql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLoaders_BatchKeys(t *testing.T) {
	posts := &mockPosts{}
	posts.On("GetMany", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return assert.ObjectsAreEqual([]string{"a", "b"}, ids)
	})).Return([]models.Post{{ID: "a"}, {}}, []error{nil, store.ErrNotFound}).Once()

	loaders := NewLoaders(posts)
	ctx := context.Background()

	first := loaders.Post.Load(ctx, "a")
	second := loaders.Post.Load(ctx, "b")

	post, err := first()
	assert.NoError(t, err)
	assert.Equal(t, "a", post.ID)

	_, err = second()
	assert.ErrorIs(t, err, store.ErrNotFound)
	posts.AssertExpectations(t)
}

func TestLoaderMiddleware(t *testing.T) {
	var got *Loaders
	handler := LoaderMiddleware(&mockPosts{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LoadersFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/posts", nil))
	assert.NotNil(t, got)
	assert.Nil(t, LoadersFromContext(context.Background()))
}
