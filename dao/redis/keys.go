package redis

import "strconv"

const (
	KeyPrefix           = "forumcore:"
	KeyUserAccessToken  = "active_access_token:"  // forumcore:active_access_token:1001
	KeyUserRefreshToken = "active_refresh_token:" // forumcore:active_refresh_token:1001
	// KeyPostViews hash，field 为 post_id，value 为尚未回写的浏览增量
	KeyPostViews = "post:views"
)

func getRedisKey(key string) string {
	return KeyPrefix + key
}

func userKey(prefix string, userID int64) string {
	return getRedisKey(prefix + strconv.FormatInt(userID, 10))
}
