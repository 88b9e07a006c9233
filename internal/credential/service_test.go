package credential_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shiftrightonce/url-shortener/internal/credential"
	"github.com/shiftrightonce/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDomain = "https://sho.rt"

func newTestService() *credential.Service {
	return credential.NewService(store.NewMemoryCredentials(), zap.NewNop())
}

func TestService_Issue(t *testing.T) {
	t.Run("issues a credential bound to the domain", func(t *testing.T) {
		svc := newTestService()

		cred, err := svc.Issue(context.Background(), testDomain)

		require.NoError(t, err)
		assert.Equal(t, testDomain, cred.Domain)
		assert.NotEmpty(t, cred.PublicID)
		assert.NotEmpty(t, cred.Secret)
		assert.NotZero(t, cred.InternalID, "re-read after insert carries the storage identity")
	})

	t.Run("token is publicId and secret joined by the separator", func(t *testing.T) {
		svc := newTestService()

		cred, err := svc.Issue(context.Background(), testDomain)
		require.NoError(t, err)

		token := cred.Token()

		assert.Equal(t, cred.PublicID+"|"+cred.Secret, token)
		assert.Equal(t, 1, strings.Count(token, "|"))
	})

	t.Run("ids and secrets are unique across issues", func(t *testing.T) {
		svc := newTestService()

		seenIDs := make(map[string]bool)
		seenSecrets := make(map[string]bool)

		for range 50 {
			cred, err := svc.Issue(context.Background(), testDomain)
			require.NoError(t, err)

			assert.False(t, seenIDs[cred.PublicID])
			assert.False(t, seenSecrets[cred.Secret])

			seenIDs[cred.PublicID] = true
			seenSecrets[cred.Secret] = true
		}
	})
}

func TestService_Validate(t *testing.T) {
	t.Run("accepts a freshly issued token", func(t *testing.T) {
		svc := newTestService()

		issued, err := svc.Issue(context.Background(), "example.com")
		require.NoError(t, err)

		cred, err := svc.Validate(context.Background(), issued.Token())

		require.NoError(t, err)
		assert.Equal(t, "example.com", cred.Domain)
		assert.Equal(t, issued.PublicID, cred.PublicID)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		svc := newTestService()

		for _, token := range []string{"", "onlyonepart", "|", "id|", "|secret"} {
			cred, err := svc.Validate(context.Background(), token)

			assert.Nil(t, cred, "token %q", token)
			assert.ErrorIs(t, err, credential.ErrUnauthenticated, "token %q", token)
		}
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		svc := newTestService()

		issued, err := svc.Issue(context.Background(), testDomain)
		require.NoError(t, err)

		cred, err := svc.Validate(context.Background(), issued.PublicID+"|wrongsecret")

		assert.Nil(t, cred)
		assert.ErrorIs(t, err, credential.ErrUnauthenticated)
	})

	t.Run("rejects an unknown public id", func(t *testing.T) {
		svc := newTestService()

		cred, err := svc.Validate(context.Background(), "unknown|secret")

		assert.Nil(t, cred)
		assert.ErrorIs(t, err, credential.ErrUnauthenticated)
	})
}

func TestService_Find(t *testing.T) {
	t.Run("finds by public id", func(t *testing.T) {
		svc := newTestService()

		issued, err := svc.Issue(context.Background(), testDomain)
		require.NoError(t, err)

		cred, err := svc.FindByPublicID(context.Background(), issued.PublicID)

		require.NoError(t, err)
		assert.Equal(t, issued.InternalID, cred.InternalID)
	})

	t.Run("finds by internal id", func(t *testing.T) {
		svc := newTestService()

		issued, err := svc.Issue(context.Background(), testDomain)
		require.NoError(t, err)

		cred, err := svc.FindByInternalID(context.Background(), issued.InternalID)

		require.NoError(t, err)
		assert.Equal(t, issued.PublicID, cred.PublicID)
	})

	t.Run("unknown lookups return ErrNotFound", func(t *testing.T) {
		svc := newTestService()

		_, err := svc.FindByPublicID(context.Background(), "missing")
		assert.ErrorIs(t, err, credential.ErrNotFound)

		_, err = svc.FindByInternalID(context.Background(), 404)
		assert.ErrorIs(t, err, credential.ErrNotFound)
	})
}

func TestSplitToken(t *testing.T) {
	t.Run("splits on the first separator only", func(t *testing.T) {
		publicID, secret := credential.SplitToken("abc|def|ghi")

		assert.Equal(t, "abc", publicID)
		assert.Equal(t, "def|ghi", secret)
	})

	t.Run("missing separator leaves the secret empty", func(t *testing.T) {
		publicID, secret := credential.SplitToken("abc")

		assert.Equal(t, "abc", publicID)
		assert.Empty(t, secret)
	})
}
