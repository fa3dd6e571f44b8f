package feed

import (
	"fmt"
	"testing"

	"example.com/socialfeed/internal/store"
	"example.com/socialfeed/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		total     int64
		page      int
		size      int
		wantPage  int
		wantPages int
	}{
		{0, 1, 10, 1, 1},
		{0, 3, 10, 1, 1},
		{12, 5, 10, 2, 2},
		{12, 0, 10, 1, 2},
		{12, -4, 10, 1, 2},
		{20, 2, 10, 2, 2},
		{21, 3, 10, 3, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tt.total, tt.page, tt.size), func(t *testing.T) {
			p := newPage(tt.total, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantPages, p.NumPages)
			assert.Equal(t, p.Number < p.NumPages, p.HasNext)
			assert.Equal(t, p.Number > 1, p.HasPrevious)
		})
	}
}

func TestComposeFeedFollowees(t *testing.T) {
	st := storetest.New(t)
	c := New(st, 10)
	a := storetest.User(t, st, "alice")
	b := storetest.User(t, st, "bob")
	z := storetest.User(t, st, "zed")

	own := storetest.Post(t, st, a, "mine")
	followed := storetest.Post(t, st, b, "bob's")
	storetest.Post(t, st, z, "stranger")

	_, err := st.ToggleFollow(t.Context(), a.ID, b.ID)
	require.NoError(t, err)

	p, err := c.ComposeFeed(t.Context(), a.ID, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)
	require.Len(t, p.Posts, 2)
	assert.Equal(t, followed.ID, p.Posts[0].ID)
	assert.Equal(t, own.ID, p.Posts[1].ID)
	assert.Equal(t, 10, p.PageSize)
}

func TestComposeFeedAnonymousSeesAll(t *testing.T) {
	st := storetest.New(t)
	a := storetest.User(t, st, "alice")
	storetest.Post(t, st, a, "one")
	storetest.Post(t, st, a, "two")

	p, err := New(st, 10).ComposeFeed(t.Context(), "", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)
}

func TestComposeFeedClampsPage(t *testing.T) {
	st := storetest.New(t)
	a := storetest.User(t, st, "alice")
	for i := range 12 {
		storetest.Post(t, st, a, fmt.Sprintf("post %d", i))
	}

	p, err := New(st, 10).ComposeFeed(t.Context(), a.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 2, p.NumPages)
	assert.Len(t, p.Posts, 2)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrevious)
	assert.Equal(t, "post 1", p.Posts[0].Content)
	assert.Equal(t, "post 0", p.Posts[1].Content)
}

func TestComposeFeedEmpty(t *testing.T) {
	st := storetest.New(t)
	a := storetest.User(t, st, "alice")

	p, err := New(st, 10).ComposeFeed(t.Context(), a.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.NumPages)
	assert.NotNil(t, p.Posts)
	assert.Empty(t, p.Posts)
}

func TestComposeHashtagFeed(t *testing.T) {
	st := storetest.New(t)
	ctx := t.Context()
	a := storetest.User(t, st, "alice")
	p1 := storetest.Post(t, st, a, "#go one")
	storetest.Post(t, st, a, "untagged")

	tag, err := st.GetOrCreateHashtag(ctx, "go")
	require.NoError(t, err)
	require.NoError(t, st.LinkHashtag(ctx, tag.ID, p1.ID))

	got, p, err := New(st, 10).ComposeHashtagFeed(ctx, "go", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "go", got.Name)
	assert.EqualValues(t, 1, got.PostsCount)
	require.Len(t, p.Posts, 1)
	assert.Equal(t, p1.ID, p.Posts[0].ID)

	_, _, err = New(st, 10).ComposeHashtagFeed(ctx, "nope", 1, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComposeFeedStoreFailure(t *testing.T) {
	_, err := New(&store.MockStoreFail{}, 10).ComposeFeed(t.Context(), "u", 1, 0)
	assert.Error(t, err)
}
