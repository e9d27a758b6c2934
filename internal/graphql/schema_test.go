package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage/memory"
	"github.com/ButyrinIA/blogapi/internal/store"
	gql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const postFields = `id title tag author date content`

type execResult struct {
	Data   map[string]json.RawMessage
	Errors []struct {
		Message    string
		Extensions map[string]interface{}
	}
}

func newTestSchema(t *testing.T, posts ...models.Post) (*gql.Schema, *store.PostStore, *memory.MemoryStorage) {
	t.Helper()
	backend := memory.NewWithPosts(posts)
	s, err := store.Open(context.Background(), backend)
	require.NoError(t, err)
	schema, err := NewSchema(NewResolver(s, false, nil))
	require.NoError(t, err)
	return schema, s, backend
}

func exec(t *testing.T, schema *gql.Schema, query string, vars map[string]interface{}) execResult {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var result execResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSchemaLoadsWithGqlparser(t *testing.T) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: Schema})
	require.NoError(t, err)

	post := schema.Types["BlogPost"]
	require.NotNil(t, post)
	for _, name := range []string{"id", "title", "tag", "author", "date", "content"} {
		field := post.Fields.ForName(name)
		require.NotNil(t, field, name)
		assert.True(t, field.Type.NonNull, name)
	}

	for _, name := range []string{"createPost", "updatePost", "deletePost"} {
		assert.NotNil(t, schema.Mutation.Fields.ForName(name), name)
	}
	assert.NotNil(t, schema.Query.Fields.ForName("posts"))

	_, errs := gqlparser.LoadQuery(schema, `mutation { createPost(input: {title: "A"}) { id } }`)
	assert.NotEmpty(t, errs, "Неполный BlogPostInput должен отклоняться")
}

func TestScenario_CreateOnEmptyCollection(t *testing.T) {
	schema, _, backend := newTestSchema(t)

	res := exec(t, schema, `mutation($in: BlogPostInput!) { createPost(input: $in) { `+postFields+` } }`, map[string]interface{}{
		"in": map[string]interface{}{"title": "A", "tag": "t", "author": "a", "date": "2024-01-01", "content": "c"},
	})
	require.Empty(t, res.Errors)
	created := decode[models.Post](t, res.Data["createPost"])
	assert.NotEmpty(t, created.ID)

	res = exec(t, schema, `{ posts { `+postFields+` } }`, nil)
	require.Empty(t, res.Errors)
	posts := decode[[]models.Post](t, res.Data["posts"])
	assert.Equal(t, []models.Post{{ID: created.ID, Title: "A", Tag: "t", Author: "a", Date: "2024-01-01", Content: "c"}}, posts)
	assert.Equal(t, posts, backend.Snapshot())
}

func TestScenario_UpdateTitle(t *testing.T) {
	p := models.Post{ID: "p1", Title: "A", Tag: "t", Author: "a", Date: "2024-01-01", Content: "c"}
	schema, _, _ := newTestSchema(t, p)

	res := exec(t, schema, `mutation { updatePost(id: "p1", input: {title: "B", tag: "t", author: "a", date: "2024-01-01", content: "c"}) { `+postFields+` } }`, nil)
	require.Empty(t, res.Errors)

	res = exec(t, schema, `{ posts { `+postFields+` } }`, nil)
	posts := decode[[]models.Post](t, res.Data["posts"])
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "B", posts[0].Title)
}

func TestScenario_DeleteNonexistent(t *testing.T) {
	p := models.Post{ID: "p1", Title: "A", Tag: "t", Author: "a", Date: "2024-01-01", Content: "c"}
	schema, s, backend := newTestSchema(t, p)

	res := exec(t, schema, `mutation { deletePost(id: "nonexistent-id") { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Post not found", res.Errors[0].Message)
	assert.Equal(t, CodeNotFound, res.Errors[0].Extensions["code"])

	assert.Equal(t, []models.Post{p}, s.List(context.Background()))
	assert.Equal(t, 0, backend.Saves())
}

func TestDeletePostThroughSchema(t *testing.T) {
	p := models.Post{ID: "p1", Title: "A", Tag: "t", Author: "a", Date: "2024-01-01", Content: "c"}
	schema, _, _ := newTestSchema(t, p)

	res := exec(t, schema, `mutation { deletePost(id: "p1") { `+postFields+` } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, p, decode[models.Post](t, res.Data["deletePost"]))

	res = exec(t, schema, `{ posts { id } }`, nil)
	assert.JSONEq(t, `[]`, string(res.Data["posts"]))
}

func TestPersistenceFailureThroughSchema(t *testing.T) {
	schema, s, backend := newTestSchema(t)
	backend.FailSaves(assert.AnError)

	res := exec(t, schema, `mutation { createPost(input: {title: "A", tag: "t", author: "a", date: "d", content: "c"}) { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Failed to create post", res.Errors[0].Message)
	assert.Equal(t, CodePersistence, res.Errors[0].Extensions["code"])
	assert.Empty(t, s.List(context.Background()))
}

func TestPostQueryBatchesAliases(t *testing.T) {
	a := models.Post{ID: "a", Title: "A"}
	b := models.Post{ID: "b", Title: "B"}
	backend := memory.NewWithPosts([]models.Post{a, b})
	s, err := store.Open(context.Background(), backend)
	require.NoError(t, err)
	schema, err := NewSchema(NewResolver(s, false, nil))
	require.NoError(t, err)

	ctx := WithLoaders(context.Background(), NewLoaders(s))
	resp := schema.Exec(ctx, `{ first: post(id: "a") { title } second: post(id: "b") { title } missing: post(id: "zzz") { title } }`, "", nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"first":{"title":"A"},"second":{"title":"B"},"missing":null}`, string(resp.Data))
}
