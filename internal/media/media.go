// Package media turns stored avatar and cover references into URLs.
package media

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/models"
)

var logg = logger.New()

const placeholderBase = "https://ui-avatars.com/api/"

// Resolver maps references relative to Root onto BaseURL.
type Resolver struct {
	Root    string
	BaseURL string
}

func New(root, baseURL string) *Resolver {
	return &Resolver{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// AvatarURL returns the user's uploaded avatar, or a generated placeholder
// when there is none or the file is missing.
func (r *Resolver) AvatarURL(u *models.User) string {
	if ref, ok := r.resolve(u.Avatar); ok {
		return ref
	}
	return Placeholder(u)
}

// CoverURL returns the user's cover photo URL, or "" when unavailable.
func (r *Resolver) CoverURL(u *models.User) string {
	ref, _ := r.resolve(u.CoverPhoto)
	return ref
}

// Placeholder builds an initials avatar from the full name, falling back to the username.
func Placeholder(u *models.User) string {
	name := u.FullName()
	if name == "" {
		name = u.Username
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "1da1f2")
	q.Set("color", "fff")
	q.Set("size", "300")
	return placeholderBase + "?" + q.Encode()
}

func (r *Resolver) resolve(ref string) (string, bool) {
	if ref == "" || r.Root == "" {
		return "", false
	}
	clean := path.Clean("/" + filepath.ToSlash(ref))
	if _, err := os.Stat(filepath.Join(r.Root, filepath.FromSlash(clean))); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logg.Warn("media", "Failed to stat media file, using fallback", err)
		}
		return "", false
	}
	return r.BaseURL + clean, true
}
