package graphql

import (
	"context"
	"errors"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/store"
	gql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

// PostService - операции над коллекцией постов, нужные резолверам
type PostService interface {
	List(ctx context.Context) []models.Post
	GetMany(ctx context.Context, ids []string) ([]models.Post, []error)
	Create(ctx context.Context, input models.PostInput) (models.Post, error)
	Update(ctx context.Context, id string, input models.PostInput) (models.Post, error)
	Delete(ctx context.Context, id string) (models.Post, error)
}

// Resolver - корневой резолвер для Query и Mutation
type Resolver struct {
	Store       PostService
	RequireAuth bool
	Logger      *zap.Logger
}

// NewResolver создает новый Resolver
func NewResolver(posts PostService, requireAuth bool, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Store: posts, RequireAuth: requireAuth, Logger: logger}
}

// postInput повторяет BlogPostInput
type postInput struct {
	Title   string
	Tag     string
	Author  string
	Date    string
	Content string
}

func (in postInput) model() models.PostInput {
	return models.PostInput{
		Title:   in.Title,
		Tag:     in.Tag,
		Author:  in.Author,
		Date:    in.Date,
		Content: in.Content,
	}
}

// Posts реализует запрос posts
func (r *Resolver) Posts(ctx context.Context) []*postResolver {
	posts := r.Store.List(ctx)
	result := make([]*postResolver, len(posts))
	for i, p := range posts {
		result[i] = &postResolver{post: p}
	}
	return result
}

// Post реализует запрос post; для неизвестного id возвращает null
func (r *Resolver) Post(ctx context.Context, args struct{ ID gql.ID }) (*postResolver, error) {
	var (
		post models.Post
		err  error
	)
	if loaders := LoadersFromContext(ctx); loaders != nil {
		post, err = loaders.Post.Load(ctx, string(args.ID))()
	} else {
		found, errs := r.Store.GetMany(ctx, []string{string(args.ID)})
		post, err = found[0], errs[0]
	}

	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &postResolver{post: post}, nil
}

// CreatePost реализует мутацию createPost
func (r *Resolver) CreatePost(ctx context.Context, args struct{ Input postInput }) (*postResolver, error) {
	if err := r.authorize(ctx); err != nil {
		return nil, err
	}

	r.Logger.Debug("Получен новый пост", zap.String("title", args.Input.Title), zap.String("author", args.Input.Author))
	post, err := r.Store.Create(ctx, args.Input.model())
	if err != nil {
		return nil, presentError("create", err)
	}
	return &postResolver{post: post}, nil
}

// UpdatePost реализует мутацию updatePost
func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID    gql.ID
	Input postInput
}) (*postResolver, error) {
	if err := r.authorize(ctx); err != nil {
		return nil, err
	}

	post, err := r.Store.Update(ctx, string(args.ID), args.Input.model())
	if err != nil {
		return nil, presentError("update", err)
	}
	return &postResolver{post: post}, nil
}

// DeletePost реализует мутацию deletePost
func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID gql.ID }) (*postResolver, error) {
	if err := r.authorize(ctx); err != nil {
		return nil, err
	}

	post, err := r.Store.Delete(ctx, string(args.ID))
	if err != nil {
		return nil, presentError("delete", err)
	}
	return &postResolver{post: post}, nil
}

func (r *Resolver) authorize(ctx context.Context) error {
	if !r.RequireAuth {
		return nil
	}
	if _, ok := UserFromContext(ctx); !ok {
		return errUnauthenticated
	}
	return nil
}

// postResolver реализует тип BlogPost
type postResolver struct {
	post models.Post
}

func (p *postResolver) ID() gql.ID      { return gql.ID(p.post.ID) }
func (p *postResolver) Title() string   { return p.post.Title }
func (p *postResolver) Tag() string     { return p.post.Tag }
func (p *postResolver) Author() string  { return p.post.Author }
func (p *postResolver) Date() string    { return p.post.Date }
func (p *postResolver) Content() string { return p.post.Content }
