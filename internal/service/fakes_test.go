package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// memDB is an in-memory stand-in for the relational store. It enforces the
// same unique constraints as the schema.
type memDB struct {
	mu sync.Mutex

	nextID int64

	feeds            map[int64]*model.Feed
	comments         map[int64]*model.Comment
	feedReactions    map[model.FeedReactionKey]int64
	commentReactions map[model.CommentReactionKey]int64
	follows          map[model.FollowKey]int64
	vibeResults      map[int64]*model.VibeResult
	users            map[uuid.UUID]*model.CachedUser

	// insertHook runs before a ledger insert with the lock released.
	insertHook func()
}

func newMemDB() *memDB {
	return &memDB{
		feeds:            map[int64]*model.Feed{},
		comments:         map[int64]*model.Comment{},
		feedReactions:    map[model.FeedReactionKey]int64{},
		commentReactions: map[model.CommentReactionKey]int64{},
		follows:          map[model.FollowKey]int64{},
		vibeResults:      map[int64]*model.VibeResult{},
		users:            map[uuid.UUID]*model.CachedUser{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) runInsertHook() {
	if db.insertHook != nil {
		hook := db.insertHook
		db.insertHook = nil
		hook()
	}
}

func (db *memDB) repository() *postgres.PostgresRepository {
	return &postgres.PostgresRepository{
		Feed:            &memFeeds{db},
		Comment:         &memComments{db},
		FeedReaction:    &memFeedReactions{db},
		CommentReaction: &memCommentReactions{db},
		Follow:          &memFollows{db},
		VibeResult:      &memVibeResults{db},
		UserCache:       &memUsers{db},
	}
}

func (db *memDB) addUser(nickname string) uuid.UUID {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := uuid.New()
	db.users[id] = &model.CachedUser{ID: id, Nickname: nickname}
	return id
}

func (db *memDB) addVibeResult(phrase string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	url := "https://cdn.example.com/" + phrase + ".png"
	db.vibeResults[id] = &model.VibeResult{ID: id, SessionID: id, Phrase: phrase, GeneratedImageURL: &url, CreatedAt: time.Now()}
	return id
}

func page[T any](items []T, idOf func(T) int64, cursor *int64, limit int) []T {
	var out []T
	for _, item := range items {
		if cursor != nil && idOf(item) >= *cursor {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

type memFeeds struct{ db *memDB }

func (r *memFeeds) Create(ctx context.Context, feed model.Feed) (*model.Feed, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.feeds {
		if f.DeletedAt == nil && f.UserID == feed.UserID && f.ResultID == feed.ResultID {
			return nil, postgres.ErrDuplicate
		}
	}
	feed.ID = r.db.id()
	feed.CreatedAt = time.Now()
	feed.UpdatedAt = feed.CreatedAt
	stored := feed
	r.db.feeds[feed.ID] = &stored
	return &feed, nil
}

func (r *memFeeds) FindByID(ctx context.Context, id int64) (*model.Feed, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.feeds[id]
	if !ok || f.DeletedAt != nil {
		return nil, postgres.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *memFeeds) ExistsActive(ctx context.Context, userID uuid.UUID, resultID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.feeds {
		if f.DeletedAt == nil && f.UserID == userID && f.ResultID == resultID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFeeds) Update(ctx context.Context, id int64, update model.FeedUpdate) (*model.Feed, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.feeds[id]
	if !ok || f.DeletedAt != nil {
		return nil, postgres.ErrNotFound
	}
	if update.Caption != nil {
		caption := *update.Caption
		f.Caption = &caption
	}
	if update.Visibility != nil {
		f.Visibility = *update.Visibility
	}
	f.UpdatedAt = time.Now()
	copied := *f
	return &copied, nil
}

func (r *memFeeds) SoftDelete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.feeds[id]
	if !ok || f.DeletedAt != nil {
		return postgres.ErrNotFound
	}
	now := time.Now()
	f.DeletedAt = &now
	return nil
}

func (r *memFeeds) sorted(keep func(*model.Feed) bool) []*model.Feed {
	var feeds []*model.Feed
	for _, f := range r.db.feeds {
		if f.DeletedAt == nil && keep(f) {
			copied := *f
			feeds = append(feeds, &copied)
		}
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID > feeds[j].ID })
	return feeds
}

func feedID(f *model.Feed) int64 { return f.ID }

func (r *memFeeds) FindPublic(ctx context.Context, cursor *int64, limit int) ([]*model.Feed, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.sorted(func(f *model.Feed) bool { return f.Visibility.IsPublic() }), feedID, cursor, limit), nil
}

func (r *memFeeds) FindByUser(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.Feed, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return page(r.sorted(func(f *model.Feed) bool { return f.UserID == userID }), feedID, cursor, limit), nil
}

func (r *memFeeds) IncrViews(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if f, ok := r.db.feeds[id]; ok {
		f.ViewCount++
	}
	return nil
}

type memComments struct{ db *memDB }

func (r *memComments) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	comment.ID = r.db.id()
	comment.CreatedAt = time.Now()
	stored := comment
	r.db.comments[comment.ID] = &stored
	return &comment, nil
}

func (r *memComments) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.DeletedAt != nil {
		return nil, postgres.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memComments) FindTopLevel(ctx context.Context, feedID int64, cursor *int64, limit int) ([]*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var roots []*model.Comment
	for _, c := range r.db.comments {
		if c.FeedID == feedID && c.ParentCommentID == nil && c.DeletedAt == nil {
			copied := *c
			roots = append(roots, &copied)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID > roots[j].ID })
	return page(roots, func(c *model.Comment) int64 { return c.ID }, cursor, limit), nil
}

func (r *memComments) FindReplies(ctx context.Context, parentIDs []int64) ([]*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	parents := map[int64]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var replies []*model.Comment
	for _, c := range r.db.comments {
		if c.ParentCommentID != nil && parents[*c.ParentCommentID] && c.DeletedAt == nil {
			copied := *c
			replies = append(replies, &copied)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies, nil
}

func (r *memComments) UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.DeletedAt != nil {
		return nil, postgres.ErrNotFound
	}
	c.Content = content
	copied := *c
	return &copied, nil
}

func (r *memComments) SoftDelete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || c.DeletedAt != nil {
		return postgres.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	return nil
}

func (r *memComments) CountByFeed(ctx context.Context, feedID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, c := range r.db.comments {
		if c.FeedID == feedID && c.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

type memFeedReactions struct{ db *memDB }

func (r *memFeedReactions) Exists(ctx context.Context, key model.FeedReactionKey) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.feedReactions[key]
	return ok, nil
}

func (r *memFeedReactions) Insert(ctx context.Context, key model.FeedReactionKey) error {
	r.db.runInsertHook()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.feedReactions[key]; ok {
		return postgres.ErrDuplicate
	}
	r.db.feedReactions[key] = r.db.id()
	return nil
}

func (r *memFeedReactions) Delete(ctx context.Context, key model.FeedReactionKey) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.feedReactions, key)
	return nil
}

func (r *memFeedReactions) CountByFeed(ctx context.Context, feedID int64) ([]model.ReactionCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byType := map[model.ReactionType]int64{}
	for key := range r.db.feedReactions {
		if key.FeedID == feedID {
			byType[key.ReactionType]++
		}
	}
	var counts []model.ReactionCount
	for rt, count := range byType {
		counts = append(counts, model.ReactionCount{ReactionType: rt, Count: count})
	}
	return counts, nil
}

func (r *memFeedReactions) FindUserTypes(ctx context.Context, feedID int64, userID uuid.UUID) ([]model.ReactionType, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var types []model.ReactionType
	for key := range r.db.feedReactions {
		if key.FeedID == feedID && key.UserID == userID {
			types = append(types, key.ReactionType)
		}
	}
	return types, nil
}

type memCommentReactions struct{ db *memDB }

func (r *memCommentReactions) Exists(ctx context.Context, key model.CommentReactionKey) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.commentReactions[key]
	return ok, nil
}

func (r *memCommentReactions) Insert(ctx context.Context, key model.CommentReactionKey) error {
	r.db.runInsertHook()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.commentReactions[key]; ok {
		return postgres.ErrDuplicate
	}
	r.db.commentReactions[key] = r.db.id()
	return nil
}

func (r *memCommentReactions) Delete(ctx context.Context, key model.CommentReactionKey) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.commentReactions, key)
	return nil
}

func (r *memCommentReactions) CountByComment(ctx context.Context, commentID int64) (int64, error) {
	counts, _ := r.CountByComments(ctx, []int64{commentID})
	return counts[commentID], nil
}

func (r *memCommentReactions) CountByComments(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range commentIDs {
		wanted[id] = true
	}
	counts := map[int64]int64{}
	for key := range r.db.commentReactions {
		if wanted[key.CommentID] {
			counts[key.CommentID]++
		}
	}
	return counts, nil
}

func (r *memCommentReactions) FindLikedAmong(ctx context.Context, userID uuid.UUID, commentIDs []int64) (map[int64]bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	liked := map[int64]bool{}
	for _, id := range commentIDs {
		if _, ok := r.db.commentReactions[model.CommentReactionKey{CommentID: id, UserID: userID}]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

type memFollows struct{ db *memDB }

func (r *memFollows) Exists(ctx context.Context, key model.FollowKey) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.follows[key]
	return ok, nil
}

func (r *memFollows) Insert(ctx context.Context, key model.FollowKey) error {
	r.db.runInsertHook()
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.follows[key]; ok {
		return postgres.ErrDuplicate
	}
	r.db.follows[key] = r.db.id()
	return nil
}

func (r *memFollows) Delete(ctx context.Context, key model.FollowKey) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.follows, key)
	return nil
}

func (r *memFollows) count(match func(model.FollowKey) bool) int64 {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for key := range r.db.follows {
		if match(key) {
			count++
		}
	}
	return count
}

func (r *memFollows) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(func(k model.FollowKey) bool { return k.FollowingID == userID }), nil
}

func (r *memFollows) CountFollowings(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(func(k model.FollowKey) bool { return k.FollowerID == userID }), nil
}

func (r *memFollows) edges(match func(model.FollowKey) (uuid.UUID, bool), cursor *int64, limit int) []*model.FollowEdge {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var edges []*model.FollowEdge
	for key, id := range r.db.follows {
		other, ok := match(key)
		if !ok {
			continue
		}
		user := model.CachedUser{ID: other}
		if u, ok := r.db.users[other]; ok {
			user = *u
		}
		edges = append(edges, &model.FollowEdge{ID: id, User: user})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID > edges[j].ID })
	return page(edges, func(e *model.FollowEdge) int64 { return e.ID }, cursor, limit)
}

func (r *memFollows) FindFollowers(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error) {
	return r.edges(func(k model.FollowKey) (uuid.UUID, bool) { return k.FollowerID, k.FollowingID == userID }, cursor, limit), nil
}

func (r *memFollows) FindFollowings(ctx context.Context, userID uuid.UUID, cursor *int64, limit int) ([]*model.FollowEdge, error) {
	return r.edges(func(k model.FollowKey) (uuid.UUID, bool) { return k.FollowingID, k.FollowerID == userID }, cursor, limit), nil
}

func (r *memFollows) FindFollowingAmong(ctx context.Context, followerID uuid.UUID, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	following := map[uuid.UUID]bool{}
	for _, id := range userIDs {
		if _, ok := r.db.follows[model.FollowKey{FollowerID: followerID, FollowingID: id}]; ok {
			following[id] = true
		}
	}
	return following, nil
}

type memVibeResults struct{ db *memDB }

func (r *memVibeResults) FindByID(ctx context.Context, id int64) (*model.VibeResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	v, ok := r.db.vibeResults[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

type memUsers struct{ db *memDB }

func (r *memUsers) Create(ctx context.Context, cachedUser model.CachedUser) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[cachedUser.ID] = &cachedUser
	return nil
}

func (r *memUsers) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil
	}
	for field, value := range updates {
		switch field {
		case "nickname":
			u.Nickname, _ = value.(string)
		case "profile_image_url":
			if s, ok := value.(string); ok {
				u.ProfileImageURL = &s
			}
		default:
			return postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type published struct {
	queue string
	msg   interface{}
}

type fakeBroker struct {
	mu         sync.Mutex
	published  []published
	deliveries chan amqp.Delivery
}

func (b *fakeBroker) Publish(ctx context.Context, queue string, msg interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, published{queue: queue, msg: msg})
	return nil
}

func (b *fakeBroker) Consume(queue string) (<-chan amqp.Delivery, error) {
	return b.deliveries, nil
}

func (b *fakeBroker) messages(queue string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var msgs []interface{}
	for _, p := range b.published {
		if p.queue == queue {
			msgs = append(msgs, p.msg)
		}
	}
	return msgs
}

type testEnv struct {
	db      *memDB
	broker  *fakeBroker
	redis   *miniredis.Miniredis
	metrics *metrics.Metrics
	svc     *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db := newMemDB()
	repo := &repository.Repository{
		Postgres: db.repository(),
		Redis:    redisrepo.New(rdb),
	}
	broker := &fakeBroker{deliveries: make(chan amqp.Delivery)}
	m := metrics.New(prometheus.NewRegistry())

	return &testEnv{
		db:      db,
		broker:  broker,
		redis:   mr,
		metrics: m,
		svc:     New(zap.NewNop(), repo, broker, m),
	}
}

func (e *testEnv) feeds() *feedService {
	return e.svc.Feed.(*feedService)
}
