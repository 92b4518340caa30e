package node_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/app/node"
)

func TestNewServices(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		svc, err := node.NewServices(context.Background(), node.ServicesConfig{
			IdentityName: "node-1",
		})
		require.NoError(t, err)
		defer svc.Release()

		env := svc.Env()
		require.NotNil(t, env.Identity)
		assert.Equal(t, "node-1", env.Identity.Name())

		_, ok := env.Messages.Get()
		assert.True(t, ok)
		_, ok = env.Resources.Get()
		assert.True(t, ok)

		// Optional services stay absent; nil refs never resolve.
		_, ok = env.Embedder.Get()
		assert.False(t, ok)
		_, ok = env.Extractor.Get()
		assert.False(t, ok)
	})

	t.Run("deterministic identity from seed", func(t *testing.T) {
		t.Parallel()

		cfg := node.ServicesConfig{
			IdentityName: "node-1",
			IdentitySeed: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		}

		first, err := node.NewServices(context.Background(), cfg)
		require.NoError(t, err)
		defer first.Release()

		second, err := node.NewServices(context.Background(), cfg)
		require.NoError(t, err)
		defer second.Release()

		assert.Equal(t, first.Identity().PublicKeyHex(), second.Identity().PublicKeyHex())
	})

	t.Run("invalid seed", func(t *testing.T) {
		t.Parallel()

		_, err := node.NewServices(context.Background(), node.ServicesConfig{
			IdentityName: "node-1",
			IdentitySeed: "abcd",
		})
		require.Error(t, err)
	})

	t.Run("unknown embedder provider", func(t *testing.T) {
		t.Parallel()

		_, err := node.NewServices(context.Background(), node.ServicesConfig{
			IdentityName:     "node-1",
			EmbedderProvider: "cohere",
		})
		require.Error(t, err)
	})

	t.Run("release drops handles", func(t *testing.T) {
		t.Parallel()

		svc, err := node.NewServices(context.Background(), node.ServicesConfig{
			IdentityName: "node-1",
		})
		require.NoError(t, err)

		env := svc.Env()
		svc.Release()

		_, ok := env.Messages.Get()
		assert.False(t, ok)
		_, ok = env.Resources.Get()
		assert.False(t, ok)
	})
}
