package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"example.com/socialfeed/internal/annotate"
	"example.com/socialfeed/internal/middleware"
	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	profilePostsLimit        = 10
	maxPageSize              = 100
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// --- HTTP Handlers ---

// createUserHandler registers a new user.
// Expects JSON body: {"username": "...", "email": "...", "first_name": "...", "last_name": "..."}
// Returns JSON response: {"user_id": <id>, "token": <jwt>}
func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !decodeBody(w, r, "http/users", &body) {
		return
	}

	u := &models.User{
		Username:  body.Username,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, "http/users", err)
		return
	}
	logg.Info("http/users", "User created successfully with user_id="+u.ID)

	token, err := middleware.IssueToken(s.jwtSecret, u.ID, s.tokenTTL)
	if err != nil {
		logg.Error("http/users", "Failed to generate token", err)
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id": u.ID,
		"token":   token,
	})
}

type profileResponse struct {
	User           *models.User  `json:"user"`
	FullName       string        `json:"full_name"`
	AvatarURL      string        `json:"avatar_url"`
	CoverURL       string        `json:"cover_url,omitempty"`
	FollowersCount int64         `json:"followers_count"`
	FollowingCount int64         `json:"following_count"`
	PostsCount     int64         `json:"posts_count"`
	IsFollowing    bool          `json:"is_following"`
	IsOwnProfile   bool          `json:"is_own_profile"`
	Posts          []models.Post `json:"posts"`
}

// getProfileHandler returns a user's profile with counts and latest posts.
func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := s.store.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, "http/profile", err)
		return
	}

	resp := profileResponse{
		User:      u,
		FullName:  u.FullName(),
		AvatarURL: s.media.AvatarURL(u),
		CoverURL:  s.media.CoverURL(u),
	}
	if resp.FollowersCount, err = s.store.FollowersCount(ctx, u.ID); err != nil {
		writeError(w, "http/profile", err)
		return
	}
	if resp.FollowingCount, err = s.store.FollowingCount(ctx, u.ID); err != nil {
		writeError(w, "http/profile", err)
		return
	}

	if viewerID, ok := middleware.UserIDFromContext(ctx); ok {
		resp.IsOwnProfile = viewerID == u.ID
		if !resp.IsOwnProfile {
			if resp.IsFollowing, err = s.store.IsFollowing(ctx, viewerID, u.ID); err != nil {
				writeError(w, "http/profile", err)
				return
			}
		}
	}

	page, err := s.feed.ComposeUserPosts(ctx, u.ID, 1, profilePostsLimit)
	if err != nil {
		writeError(w, "http/profile", err)
		return
	}
	resp.PostsCount = page.Total
	resp.Posts = page.Posts

	writeJSON(w, http.StatusOK, resp)
}

// updateProfileHandler edits the caller's own profile. Omitted fields are unchanged.
func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/profile")
	if !ok {
		return
	}
	var upd models.ProfileUpdate
	if !decodeBody(w, r, "http/profile", &upd) {
		return
	}

	u, err := s.store.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		writeError(w, "http/profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// followHandler toggles whether the caller follows {username}.
// Returns JSON response: {"is_following": bool, "followers_count": n}
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/follow")
	if !ok {
		return
	}
	target, err := s.store.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, "http/follow", err)
		return
	}

	following, count, err := s.engagement.ToggleFollow(r.Context(), userID, target.ID)
	if err != nil {
		writeError(w, "http/follow", err)
		return
	}

	logg.Info("http/follow", "Follow toggled for user_id="+userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"is_following":    following,
		"followers_count": count,
	})
}

// getFeedHandler returns one page of the caller's timeline, or of all posts
// for anonymous callers.
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	page, pageSize := s.pageParams(r)

	p, err := s.feed.ComposeFeed(r.Context(), viewerID, page, pageSize)
	if err != nil {
		writeError(w, "http/feed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// createPostHandler creates a post and links its hashtags.
// Expects JSON body: {"content": "...", "image": "...", "reply_to": "<post id>"}
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/posts")
	if !ok {
		return
	}
	var body struct {
		Content string  `json:"content"`
		Image   string  `json:"image"`
		ReplyTo *string `json:"reply_to"`
	}
	if !decodeBody(w, r, "http/posts", &body) {
		return
	}
	if body.ReplyTo != nil && *body.ReplyTo == "" {
		body.ReplyTo = nil
	}

	post, err := s.engagement.CreatePostWithAnnotations(r.Context(), userID, body.Content, body.Image, body.ReplyTo)
	if err != nil {
		writeError(w, "http/posts", err)
		return
	}

	created, err := s.store.GetPost(r.Context(), post.ID)
	if err != nil {
		writeError(w, "http/posts", err)
		return
	}
	logg.Info("http/posts", "Post created by user_id="+userID)
	writeJSON(w, http.StatusCreated, created)
}

// getPostHandler returns a post with its replies, hashtags and mentions.
func (s *Server) getPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		writeError(w, "http/posts", err)
		return
	}
	replies, err := s.store.ListReplies(ctx, id)
	if err != nil {
		writeError(w, "http/posts", err)
		return
	}
	tags, err := s.store.HashtagsForPost(ctx, id)
	if err != nil {
		writeError(w, "http/posts", err)
		return
	}

	mentions := []string{}
	seen := map[string]bool{}
	for m := range annotate.Mentions(post.Content) {
		if !seen[m] {
			seen[m] = true
			mentions = append(mentions, m)
		}
	}
	if replies == nil {
		replies = []models.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"post":     post,
		"replies":  replies,
		"hashtags": tags,
		"mentions": mentions,
	})
}

// likeHandler toggles the caller's like on a post.
// Returns JSON response: {"liked": bool, "likes_count": n}
func (s *Server) likeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/like")
	if !ok {
		return
	}
	liked, count, err := s.engagement.ToggleLike(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "http/like", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"liked":       liked,
		"likes_count": count,
	})
}

// retweetHandler toggles the caller's retweet of a post.
// Returns JSON response: {"retweeted": bool, "retweets_count": n}
func (s *Server) retweetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/retweet")
	if !ok {
		return
	}
	retweeted, count, err := s.engagement.ToggleRetweet(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "http/retweet", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"retweeted":      retweeted,
		"retweets_count": count,
	})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "http/search", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// hashtagFeedHandler pages through the posts tagged with {name}.
func (s *Server) hashtagFeedHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize := s.pageParams(r)
	tag, p, err := s.feed.ComposeHashtagFeed(r.Context(), chi.URLParam(r, "name"), page, pageSize)
	if err != nil {
		writeError(w, "http/hashtags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hashtag": tag,
		"page":    p,
	})
}

func (s *Server) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/notifications")
	if !ok {
		return
	}
	limit := intParam(r, "limit", defaultNotificationLimit)
	limit = min(max(limit, 1), maxNotificationLimit)

	list, err := s.store.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		writeError(w, "http/notifications", err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, "http/notifications")
	if !ok {
		return
	}
	if err := s.store.MarkNotificationRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, "http/notifications", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (s *Server) pageParams(r *http.Request) (page, pageSize int) {
	page = intParam(r, "page", 1)
	pageSize = intParam(r, "page_size", s.pageSize)
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	return page, min(pageSize, maxPageSize)
}

// intParam reads an integer query parameter; missing or malformed values yield def.
func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func requireUser(w http.ResponseWriter, r *http.Request, module string) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		logg.Info(module, "Unauthorized request")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, module string, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logg.Error(module, "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logg.Error("http", "Failed to encode response", err)
	}
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, module string, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, store.ErrSelfAction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logg.Error(module, "Request failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
