package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix          = "user:%d"
	PostKeyPrefix          = "post:%d"
	ReactionCountKeyPrefix = "reactions:count:%s:%d"
)

const (
	UserTTL          = 5 * time.Minute
	PostTTL          = 30 * time.Minute
	ReactionCountTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// ReactionCountKey keys the cached reaction count for one target.
func ReactionCountKey(targetType string, targetID uint) string {
	return fmt.Sprintf(ReactionCountKeyPrefix, targetType, targetID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateReactionCount(ctx context.Context, targetType string, targetID uint) {
	Invalidate(ctx, ReactionCountKey(targetType, targetID))
}
