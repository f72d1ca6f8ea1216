// Package note persists note records scoped by owner. Every statement
// carries the owner id, no call path can reach another owner's notes.
package note

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/notably/notes-api/sys"
	"go.uber.org/zap"
)

type Store struct {
	log          *zap.SugaredLogger
	db           *sql.DB
	cache        *redis.Client
	dbTimeout    time.Duration
	cacheTimeout time.Duration
	cacheTTL     time.Duration
}

func New(res *sys.Resources, cfg *sys.Config) *Store {
	return &Store{
		log:          res.Log,
		db:           res.Database,
		cache:        res.Cache,
		dbTimeout:    cfg.Database.OperationTimeout,
		cacheTimeout: cfg.Cache.OperationTimeout,
		cacheTTL:     cfg.Cache.CacheTTL,
	}
}

func (s *Store) cached(ctx context.Context, owner, id string) (Note, bool) {
	if s.cache == nil {
		return Note{}, false
	}

	key := fmt.Sprintf(noteKey, owner, id)

	tcCtx, tcCancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer tcCancel()
	get, err := s.cache.Get(tcCtx, key).Result()
	if err != nil && err != redis.Nil {
		s.log.Error("failure to get note ", id, " from cache: ", err.Error())
	}
	if get == "" {
		return Note{}, false
	}

	var found Note
	if err := json.Unmarshal([]byte(get), &found); err != nil {
		s.log.Errorf("error parsing cached response for key %s: %s", key, err)
		return Note{}, false
	}
	return found, true
}

// fillCache stores the note best effort. A fill racing an invalidation from a
// concurrent mutation can reinstate the old row for up to the cache TTL.
func (s *Store) fillCache(ctx context.Context, found Note) {
	if s.cache == nil {
		return
	}

	key := fmt.Sprintf(noteKey, found.OwnerID, found.ID)

	data, err := json.Marshal(found)
	if err != nil {
		s.log.Errorf("error marshalling note for cache key %s: %s", key, err)
		return
	}

	tcCtx, tcCancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer tcCancel()
	if err := s.cache.Set(tcCtx, key, string(data), s.cacheTTL).Err(); err != nil {
		s.log.Error("failure to set note ", found.ID, " into cache: ", err.Error())
	}
}

func (s *Store) dropCache(ctx context.Context, owner, id string) {
	if s.cache == nil {
		return
	}

	key := fmt.Sprintf(noteKey, owner, id)

	tcCtx, tcCancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer tcCancel()
	if err := s.cache.Del(tcCtx, key).Err(); err != nil {
		s.log.Error("failure to drop note ", id, " from cache: ", err.Error())
	}
}
