package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

func newPublish(store *memoryStore, pointers *fakePointers, subs fakeSubmodules, builder *fakeBuilder) *usecase.PublishVersions {
	return usecase.NewPublishVersions(testConfig("/project"), subs, builder, store, pointers, nil, discardLogger())
}

func TestPublishVersions(t *testing.T) {
	ctx := context.Background()

	subsV1 := fakeSubmodules{
		{Name: "acquisition", Data: []byte("acquisition v1")},
		{Name: "donation", Data: []byte("donation v1")},
	}
	subsV2 := fakeSubmodules{
		{Name: "acquisition", Data: []byte("acquisition v2")},
		{Name: "donation", Data: []byte("donation v2")},
	}

	t.Run("first publish starts from an empty manifest", func(t *testing.T) {
		store := newMemoryStore()
		pointers := &fakePointers{}
		builder := &fakeBuilder{}

		result, err := newPublish(store, pointers, subsV1, builder).Run(ctx, usecase.PublishVersionsParams{Hash: "h1", Build: true})
		require.NoError(t, err)

		assert.Equal(t, 1, builder.calls)
		assert.Empty(t, result.PreviousPointer)
		assert.Equal(t, domain.ManifestPointers{domain.DefaultManifestName: result.Pointer}, pointers.pointers)
		require.Len(t, result.Manifest, 1)
		assert.Equal(t, result.Published, result.Manifest["h1"])

		// The published manifest is exactly what the pointer resolves to
		data, err := store.Get(ctx, result.Pointer)
		require.NoError(t, err)
		manifest, err := domain.ParseVersionManifest(data)
		require.NoError(t, err)
		assert.Equal(t, result.Manifest, manifest)

		blob, err := store.Get(ctx, result.Published["donation"])
		require.NoError(t, err)
		assert.Equal(t, "donation v1", string(blob))
	})

	t.Run("publishing a new hash never touches earlier entries", func(t *testing.T) {
		store := newMemoryStore()
		pointers := &fakePointers{}

		hashes := []string{"h1", "h2", "h3"}
		subs := []fakeSubmodules{subsV1, subsV2, subsV1}
		seen := map[string]map[string]string{}

		for i, hash := range hashes {
			result, err := newPublish(store, pointers, subs[i], &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: hash})
			require.NoError(t, err)
			seen[hash] = result.Published

			for prev, entries := range seen {
				assert.Equal(t, entries, result.Manifest[prev], "entry for %s after publishing %s", prev, hash)
			}
			assert.Len(t, result.Manifest, i+1)
		}
		assert.Equal(t, 3, pointers.saves)
	})

	t.Run("republishing the same hash overwrites only its submodules", func(t *testing.T) {
		store := newMemoryStore()
		pointers := &fakePointers{}

		first, err := newPublish(store, pointers, subsV1, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: "h1"})
		require.NoError(t, err)

		partial := fakeSubmodules{{Name: "acquisition", Data: []byte("acquisition hotfix")}}
		second, err := newPublish(store, pointers, partial, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: "h1"})
		require.NoError(t, err)

		assert.Equal(t, first.Pointer, second.PreviousPointer)
		assert.NotEqual(t, first.Manifest["h1"]["acquisition"], second.Manifest["h1"]["acquisition"])
		assert.Equal(t, first.Manifest["h1"]["donation"], second.Manifest["h1"]["donation"])
	})

	t.Run("store failure aborts before the pointer moves", func(t *testing.T) {
		store := newMemoryStore()
		pointers := &fakePointers{}
		first, err := newPublish(store, pointers, subsV1, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: "h1"})
		require.NoError(t, err)

		store.failPut = true
		_, err = newPublish(store, pointers, subsV2, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: "h2"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPublishFailed)
		assert.Equal(t, first.Pointer, pointers.pointers[domain.DefaultManifestName])
	})

	t.Run("unreachable previous manifest is an error", func(t *testing.T) {
		pointers := &fakePointers{pointers: domain.ManifestPointers{domain.DefaultManifestName: "mem-missing"}}

		_, err := newPublish(newMemoryStore(), pointers, subsV1, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{Hash: "h1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Zero(t, pointers.saves)
	})

	t.Run("submodule build failure stops the publish", func(t *testing.T) {
		store := newMemoryStore()
		pointers := &fakePointers{}
		builder := &fakeBuilder{err: errors.New("webpack failed")}

		_, err := newPublish(store, pointers, subsV1, builder).Run(ctx, usecase.PublishVersionsParams{Hash: "h1", Build: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webpack failed")
		assert.Empty(t, store.blobs)
	})

	t.Run("a hash is required", func(t *testing.T) {
		_, err := newPublish(newMemoryStore(), &fakePointers{}, subsV1, &fakeBuilder{}).Run(ctx, usecase.PublishVersionsParams{})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
