// Package routecache stores planned routes in Redis sorted sets so replicas
// serving the same session do not repeat a search.
package routecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-navigator/game"
	"github.com/beka-birhanu/vinom-navigator/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// unreachableMember marks a cached search that found no path.
const unreachableMember = "none"

var ErrRouteNotCached = errors.New("route not cached")

// RedisRouteCache keeps each route as a sorted set whose scores are step indices.
type RedisRouteCache struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

var _ i.RouteCache = &RedisRouteCache{}

// NewRedisRouteCache initializes a RedisRouteCache with the provided Redis client and TTL.
func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{
		client: client,
		locker: redsync.New(goredis.NewPool(client)),
		ttl:    ttl,
	}
}

// Fetch returns the cached route for key, or plans and stores it while
// holding a lock on the key.
func (c *RedisRouteCache) Fetch(ctx context.Context, key string, plan func() []game.Coordinate) ([]game.Coordinate, bool, error) {
	route, err := c.load(ctx, key)
	if err == nil {
		return route, true, nil
	}
	if !errors.Is(err, ErrRouteNotCached) {
		return nil, false, err
	}

	mutex := c.locker.NewMutex(key + ":plan_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return nil, false, fmt.Errorf("locking route %s: %w", key, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	// Another replica may have stored it while we waited.
	if route, err := c.load(ctx, key); err == nil {
		return route, true, nil
	}

	route = plan()
	if err := c.store(ctx, key, route); err != nil {
		return route, false, err
	}
	return route, false, nil
}

func (c *RedisRouteCache) load(ctx context.Context, key string) ([]game.Coordinate, error) {
	members, err := c.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading route %s: %w", key, err)
	}
	if len(members) == 0 {
		return nil, ErrRouteNotCached
	}
	if len(members) == 1 && members[0] == unreachableMember {
		return []game.Coordinate{}, nil
	}

	route := make([]game.Coordinate, 0, len(members))
	for _, m := range members {
		coord, err := parseMember(m)
		if err != nil {
			return nil, fmt.Errorf("decoding route %s: %w", key, err)
		}
		route = append(route, coord)
	}
	return route, nil
}

func (c *RedisRouteCache) store(ctx context.Context, key string, route []game.Coordinate) error {
	members := make([]redis.Z, 0, len(route))
	for idx, coord := range route {
		members = append(members, redis.Z{Score: float64(idx), Member: coord.String()})
	}
	if len(members) == 0 {
		members = append(members, redis.Z{Score: -1, Member: unreachableMember})
	}

	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing route %s: %w", key, err)
	}
	return nil
}

// parseMember reads a coordinate written by game.Coordinate.String.
func parseMember(m string) (game.Coordinate, error) {
	xs, ys, ok := strings.Cut(m, ",")
	if !ok {
		return game.Coordinate{}, fmt.Errorf("malformed member %q", m)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return game.Coordinate{}, err
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return game.Coordinate{}, err
	}
	return game.Coordinate{X: x, Y: y}, nil
}
