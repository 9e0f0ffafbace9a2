package redisrepo

import "fmt"

const (
	VIBE_RESULT_KEY = "vibe-result:%d" // <resultID>
	USER_CACHE_KEY  = "user-cache:%s"  // <userID>
)

func VibeResultKey(resultID int64) string {
	return fmt.Sprintf(VIBE_RESULT_KEY, resultID)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}
