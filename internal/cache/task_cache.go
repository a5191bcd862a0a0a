package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tasks:list:"

// ListKey builds a deterministic cache key for one user's list query.
// Every filter, the ordering and the page participate, so distinct
// queries never collide.
func ListKey(userID uuid.UUID, q dom.TaskQuery) string {
	var b strings.Builder
	b.WriteString(userID.String())
	b.WriteString("|s=")
	for _, s := range q.Statuses {
		b.WriteString(string(s))
		b.WriteByte(',')
	}
	b.WriteString("|p=")
	for _, p := range q.Priorities {
		b.WriteString(string(p))
		b.WriteByte(',')
	}
	if q.CategoryID != nil {
		b.WriteString("|c=" + q.CategoryID.String())
	}
	if q.DueDateMin != nil {
		b.WriteString("|dmin=" + q.DueDateMin.Format("2006-01-02"))
	}
	if q.DueDateMax != nil {
		b.WriteString("|dmax=" + q.DueDateMax.Format("2006-01-02"))
	}
	if q.Search != "" {
		b.WriteString("|q=" + strings.ToLower(q.Search))
	}
	if q.Overdue != nil {
		b.WriteString("|o=" + strconv.FormatBool(*q.Overdue))
	}
	fmt.Fprintf(&b, "|ord=%s/%v|page=%d", q.OrderBy, q.Descending, q.Page)
	return b.String()
}

type cachedPage struct {
	Items []dom.Task `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
}

// TaskCache caches task list pages in Redis, scoped per user so a write
// by one user never evicts another's entries.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached page for key, with ok=false on miss.
func (c *TaskCache) GetList(ctx context.Context, userID uuid.UUID, key string) (dom.TaskPage, bool, error) {
	b, err := c.rdb.Get(ctx, redisKey(userID, key)).Bytes()
	if err == redis.Nil {
		return dom.TaskPage{}, false, nil
	}
	if err != nil {
		return dom.TaskPage{}, false, err
	}
	var p cachedPage
	if err := json.Unmarshal(b, &p); err != nil {
		return dom.TaskPage{}, false, err
	}
	return dom.TaskPage{Items: p.Items, Total: p.Total, Page: p.Page}, true, nil
}

// SetList stores the page in cache.
func (c *TaskCache) SetList(ctx context.Context, userID uuid.UUID, key string, page dom.TaskPage) error {
	b, err := json.Marshal(cachedPage{Items: page.Items, Total: page.Total, Page: page.Page})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, redisKey(userID, key), b, c.ttl).Err()
}

// InvalidateUser removes every cached page for the user (called on any
// task or category write).
func (c *TaskCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+userID.String()+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func redisKey(userID uuid.UUID, key string) string {
	return keyPrefix + userID.String() + ":" + key
}
