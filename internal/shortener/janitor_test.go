package shortener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftrightonce/url-shortener/internal/ident"
	"github.com/shiftrightonce/url-shortener/internal/shortener"
	"github.com/shiftrightonce/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJanitor(t *testing.T) {
	t.Run("prunes expired links on its interval", func(t *testing.T) {
		repo := store.NewMemoryLinks()
		svc := newTestService(t, repo)

		require.NoError(t, repo.Insert(context.Background(), &shortener.Link{
			PublicID:    ident.NewPublicID(),
			ContentHash: ident.ContentHash(testURL),
			ShortCode:   "DEAD03",
			RawURL:      testURL,
			ExpiresAt:   time.Now().Add(-time.Hour).UnixMilli(),
		}))

		janitor := shortener.NewJanitor(svc, 10*time.Millisecond, zap.NewNop())
		require.NoError(t, janitor.Start(context.Background()))

		defer func() {
			require.NoError(t, janitor.Shutdown())
		}()

		assert.Eventually(t, func() bool {
			_, err := svc.Resolve(context.Background(), "DEAD03")
			return errors.Is(err, shortener.ErrNotFound)
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("zero interval disables the janitor", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks())

		janitor := shortener.NewJanitor(svc, 0, zap.NewNop())

		require.NoError(t, janitor.Start(context.Background()))
		require.NoError(t, janitor.Shutdown())
	})

	t.Run("shutdown without start is a no-op", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryLinks())

		janitor := shortener.NewJanitor(svc, time.Minute, zap.NewNop())

		require.NoError(t, janitor.Shutdown())
	})
}
