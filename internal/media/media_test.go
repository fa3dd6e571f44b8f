package media

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"example.com/socialfeed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "avatars"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "avatars", "a.png"), []byte("png"), 0o644))
	r := New(root, "/media/")

	u := &models.User{Username: "alice", Avatar: "avatars/a.png"}
	assert.Equal(t, "/media/avatars/a.png", r.AvatarURL(u))

	u.Avatar = "avatars/missing.png"
	assert.Equal(t, Placeholder(u), r.AvatarURL(u))
}

func TestAvatarURLCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	r := New(root, "/media")

	u := &models.User{Username: "alice", Avatar: "../../etc/passwd"}
	assert.Equal(t, Placeholder(u), r.AvatarURL(u))
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		user models.User
		want string
	}{
		{models.User{Username: "alice"}, "alice"},
		{models.User{Username: "alice", FirstName: "Alice", LastName: "Liddell"}, "Alice Liddell"},
		{models.User{Username: "alice", LastName: "Liddell"}, "Liddell"},
	}
	for _, tt := range tests {
		u, err := url.Parse(Placeholder(&tt.user))
		require.NoError(t, err)
		assert.Equal(t, "ui-avatars.com", u.Host)
		q := u.Query()
		assert.Equal(t, tt.want, q.Get("name"))
		assert.Equal(t, "1da1f2", q.Get("background"))
		assert.Equal(t, "fff", q.Get("color"))
		assert.Equal(t, "300", q.Get("size"))
	}
}

func TestCoverURL(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cover.jpg"), []byte("jpg"), 0o644))
	r := New(root, "https://cdn.example.com")

	assert.Equal(t, "https://cdn.example.com/cover.jpg", r.CoverURL(&models.User{CoverPhoto: "cover.jpg"}))
	assert.Empty(t, r.CoverURL(&models.User{}))
	assert.Empty(t, r.CoverURL(&models.User{CoverPhoto: "gone.jpg"}))
}
