package cache

import (
	"context"
	"time"
)

const (
	ForumKeyPrefix = "forum:"
	ForumListKey   = "forums:list"
)

const (
	ForumTTL     = 2 * time.Minute
	ForumListTTL = 30 * time.Second
)

func ForumKey(forumID string) string {
	return ForumKeyPrefix + forumID
}

// InvalidateForum drops a forum's detail entry and the list it appears in.
func (s *Store) InvalidateForum(ctx context.Context, forumID string) {
	s.Invalidate(ctx, ForumKey(forumID), ForumListKey)
}

// InvalidateForumList drops the cached forum list.
func (s *Store) InvalidateForumList(ctx context.Context) {
	s.Invalidate(ctx, ForumListKey)
}
