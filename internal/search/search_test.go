package search

import (
	"fmt"
	"testing"

	"example.com/socialfeed/internal/store"
	"example.com/socialfeed/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEmptyQuery(t *testing.T) {
	res, err := New(&store.MockStoreFail{}).Search(t.Context(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
	assert.Empty(t, res.Users)
	assert.Empty(t, res.Hashtags)
}

func TestSearchHashtagPrefix(t *testing.T) {
	st := storetest.New(t)
	ctx := t.Context()
	a := storetest.User(t, st, "alice")
	p := storetest.Post(t, st, a, "Hello #world")
	tag, err := st.GetOrCreateHashtag(ctx, "world")
	require.NoError(t, err)
	require.NoError(t, st.LinkHashtag(ctx, tag.ID, p.ID))

	res, err := New(st).Search(ctx, "#wor")
	require.NoError(t, err)
	require.Len(t, res.Hashtags, 1)
	assert.Equal(t, "world", res.Hashtags[0].Name)
	assert.EqualValues(t, 1, res.Hashtags[0].PostsCount)
	require.Len(t, res.Posts, 1, "posts are matched on the full query")
	assert.Empty(t, res.Users)

	res, err = New(st).Search(ctx, "wor")
	require.NoError(t, err)
	assert.Empty(t, res.Hashtags, "hashtags need a leading #")
	assert.Len(t, res.Posts, 1)
}

func TestSearchBareHashListsHashtags(t *testing.T) {
	st := storetest.New(t)
	ctx := t.Context()
	for i := range MaxHashtags + 2 {
		_, err := st.GetOrCreateHashtag(ctx, fmt.Sprintf("tag%02d", i))
		require.NoError(t, err)
	}

	res, err := New(st).Search(ctx, " # ")
	require.NoError(t, err)
	assert.Equal(t, "#", res.Query)
	require.Len(t, res.Hashtags, MaxHashtags)
	assert.Equal(t, "tag00", res.Hashtags[0].Name)
}

func TestSearchCaps(t *testing.T) {
	st := storetest.New(t)
	a := storetest.User(t, st, "gopher")
	for i := range MaxPosts + 5 {
		storetest.Post(t, st, a, fmt.Sprintf("gopher post %d", i))
	}
	for i := range MaxUsers + 2 {
		storetest.User(t, st, fmt.Sprintf("gopher%02d", i))
	}

	res, err := New(st).Search(t.Context(), "GOPHER")
	require.NoError(t, err)
	assert.Len(t, res.Posts, MaxPosts)
	assert.Len(t, res.Users, MaxUsers)
	assert.Equal(t, "gopher", res.Users[0].Username)
	assert.Equal(t, fmt.Sprintf("gopher post %d", MaxPosts+4), res.Posts[0].Content)
}

func TestSearchStoreFailure(t *testing.T) {
	_, err := New(&store.MockStoreFail{}).Search(t.Context(), "x")
	assert.Error(t, err)
}
