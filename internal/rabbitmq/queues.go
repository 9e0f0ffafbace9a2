package rabbitmq

const (
	USER_INFO_UPDATED_QUEUE    = "user.info.updated"
	FEED_REACTION_ADDED_QUEUE  = "feed.reaction.added"
	FEED_COMMENT_CREATED_QUEUE = "feed.comment.created"
	USER_FOLLOW_CREATED_QUEUE  = "user.follow.created"
)

var declaredQueues = []string{
	USER_INFO_UPDATED_QUEUE,
	FEED_REACTION_ADDED_QUEUE,
	FEED_COMMENT_CREATED_QUEUE,
	USER_FOLLOW_CREATED_QUEUE,
}
