package refresh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// Each token is a hash at <prefix>tok:<token> with the fields owner, exp,
// created (unix millis) and revoked ("0" or "1"). The hash outlives the
// token by ExpiredRetention so that Consume can still answer ErrExpired.
// <prefix>owner:<id> is a set indexing the tokens of an owner. Its TTL
// follows the longest lived member.

// ExpiredRetention is how long an expired token hash is kept before Redis
// evicts it. Past that, Consume answers ErrNotFound.
const ExpiredRetention = time.Hour

// KEYS[1] token hash, KEYS[2] owner set
// ARGV owner, exp, created, ttl millis, token
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
local ttl = tonumber(ARGV[4])
redis.call("HSET", KEYS[1], "owner", ARGV[1], "exp", ARGV[2], "created", ARGV[3], "revoked", "0")
redis.call("PEXPIRE", KEYS[1], ttl)
redis.call("SADD", KEYS[2], ARGV[5])
local current = redis.call("PTTL", KEYS[2])
if current < ttl then
  redis.call("PEXPIRE", KEYS[2], ttl)
end
return 1
`)

// KEYS[1] token hash
// ARGV now millis
var consumeScript = redis.NewScript(`
local v = redis.call("HMGET", KEYS[1], "owner", "exp", "created", "revoked")
if not v[1] then
  return {0}
end
if v[4] == "1" then
  return {-1}
end
if tonumber(v[2]) <= tonumber(ARGV[1]) then
  return {-2}
end
redis.call("HSET", KEYS[1], "revoked", "1")
return {1, v[1], v[2], v[3]}
`)

// KEYS[1] token hash
var revokeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "revoked", "1")
return 1
`)

// KEYS[1] owner set
// ARGV token key prefix
var revokeOwnerScript = redis.NewScript(`
local n = 0
for _, tok in ipairs(redis.call("SMEMBERS", KEYS[1])) do
  local key = ARGV[1] .. tok
  local revoked = redis.call("HGET", key, "revoked")
  if not revoked then
    redis.call("SREM", KEYS[1], tok)
  elseif revoked == "0" then
    redis.call("HSET", key, "revoked", "1")
    n = n + 1
  end
end
return n
`)

// KEYS[1] token hash
// ARGV now millis, owner key prefix, token
var pruneScript = redis.NewScript(`
local v = redis.call("HMGET", KEYS[1], "owner", "exp", "revoked")
if not v[1] then
  return 0
end
if v[3] == "1" or tonumber(v[2]) <= tonumber(ARGV[1]) then
  redis.call("DEL", KEYS[1])
  redis.call("SREM", ARGV[2] .. v[1], ARGV[3])
  return 1
end
return 0
`)

// KEYS[1] owner set
// ARGV token key prefix
var pruneOwnerScript = redis.NewScript(`
local n = 0
for _, tok in ipairs(redis.call("SMEMBERS", KEYS[1])) do
  if redis.call("EXISTS", ARGV[1] .. tok) == 0 then
    redis.call("SREM", KEYS[1], tok)
    n = n + 1
  end
end
return n
`)

const (
	consumeNotFound = 0
	consumeRevoked  = -1
	consumeExpired  = -2
	consumeOK       = 1
)

// RedisStore keeps records in Redis. Multi-key updates run as Lua scripts,
// so each operation is atomic on a single node.
type RedisStore struct {
	client    redis.UniversalClient
	now       func() time.Time
	tokPrefix string
	ownPrefix string
}

func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	o := newOptions(opts)
	return &RedisStore{
		client:    client,
		now:       o.now,
		tokPrefix: o.keyPrefix + "tok:",
		ownPrefix: o.keyPrefix + "owner:",
	}
}

func (s *RedisStore) tokenKey(token string) string   { return s.tokPrefix + token }
func (s *RedisStore) ownerKey(ownerID string) string { return s.ownPrefix + ownerID }

func (s *RedisStore) Insert(ctx context.Context, token, ownerID string, expiresAt time.Time) error {
	now := s.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return ErrExpired
	}

	keys := []string{s.tokenKey(token), s.ownerKey(ownerID)}
	keep := ttl + ExpiredRetention
	ok, err := insertScript.Run(ctx, s.client, keys,
		ownerID, expiresAt.UnixMilli(), now.UnixMilli(), keep.Milliseconds(), token).Int64()
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	if ok == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *RedisStore) FindActive(ctx context.Context, token string) (*Record, error) {
	vals, err := s.client.HMGet(ctx, s.tokenKey(token), "owner", "exp", "created", "revoked").Result()
	if err != nil {
		return nil, fmt.Errorf("find active refresh token: %w", err)
	}

	owner, _ := vals[0].(string)
	if owner == "" {
		return nil, ErrNotFound
	}

	rec, err := newRecord(token, owner, vals[1], vals[2])
	if err != nil {
		return nil, err
	}
	rec.Revoked = vals[3] == "1"

	if !rec.Active(s.now()) {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) (*Record, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.tokenKey(token)}, s.now().UnixMilli()).Slice()
	if err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if len(res) == 0 {
		return nil, errors.New("consume refresh token: empty script result")
	}

	status, _ := res[0].(int64)
	switch status {
	case consumeOK:
		if len(res) != 4 {
			return nil, fmt.Errorf("consume refresh token: unexpected script result %v", res)
		}
		owner, _ := res[1].(string)
		return newRecord(token, owner, res[2], res[3])
	case consumeRevoked:
		return nil, ErrRevoked
	case consumeExpired:
		return nil, ErrExpired
	case consumeNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("consume refresh token: unexpected status %d", status)
	}
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	ok, err := revokeScript.Run(ctx, s.client, []string{s.tokenKey(token)}).Int64()
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if ok == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) RevokeOwner(ctx context.Context, ownerID string) (int64, error) {
	n, err := revokeOwnerScript.Run(ctx, s.client, []string{s.ownerKey(ownerID)}, s.tokPrefix).Int64()
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens of owner %s: %w", ownerID, err)
	}
	return n, nil
}

func (s *RedisStore) DeleteExpiredOrRevoked(ctx context.Context) (int64, error) {
	now := s.now().UnixMilli()

	var n int64
	iter := s.client.Scan(ctx, 0, s.tokPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		token := key[len(s.tokPrefix):]

		deleted, err := pruneScript.Run(ctx, s.client, []string{key}, now, s.ownPrefix, token).Int64()
		if err != nil {
			return n, fmt.Errorf("prune refresh token: %w", err)
		}
		n += deleted
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("scan refresh tokens: %w", err)
	}

	if err := s.pruneOwners(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// pruneOwners drops owner index entries whose token hash Redis already evicted.
func (s *RedisStore) pruneOwners(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.ownPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := pruneOwnerScript.Run(ctx, s.client, []string{iter.Val()}, s.tokPrefix).Err(); err != nil {
			return fmt.Errorf("prune owner index: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan owner indexes: %w", err)
	}
	return nil
}

func newRecord(token, owner string, exp, created any) (*Record, error) {
	expMs, err := parseMillis(exp)
	if err != nil {
		return nil, fmt.Errorf("parse exp of refresh token: %w", err)
	}
	createdMs, err := parseMillis(created)
	if err != nil {
		return nil, fmt.Errorf("parse created of refresh token: %w", err)
	}

	return &Record{
		Token:     token,
		OwnerID:   owner,
		ExpiresAt: time.UnixMilli(expMs),
		CreatedAt: time.UnixMilli(createdMs),
	}, nil
}

func parseMillis(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected value %v", v)
	}
	return strconv.ParseInt(s, 10, 64)
}
