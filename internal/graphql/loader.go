package graphql

import (
	"context"
	"net/http"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/graph-gophers/dataloader/v7"
)

type loadersKey struct{}

// Loaders живут один запрос: несколько post(id) в одном документе уходят в хранилище одним вызовом
type Loaders struct {
	Post *dataloader.Loader[string, models.Post]
}

func NewLoaders(posts PostService) *Loaders {
	return &Loaders{
		Post: dataloader.NewBatchedLoader(func(ctx context.Context, ids []string) []*dataloader.Result[models.Post] {
			found, errs := posts.GetMany(ctx, ids)
			results := make([]*dataloader.Result[models.Post], len(ids))
			for i := range ids {
				results[i] = &dataloader.Result[models.Post]{Data: found[i], Error: errs[i]}
			}
			return results
		}),
	}
}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

func LoadersFromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey{}).(*Loaders)
	return l
}

// LoaderMiddleware создает свежие загрузчики на каждый HTTP-запрос
func LoaderMiddleware(posts PostService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithLoaders(r.Context(), NewLoaders(posts))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
