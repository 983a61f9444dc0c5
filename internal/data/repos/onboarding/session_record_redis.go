package onboarding

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	domain "github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/platform/dbctx"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

const redisKeyPrefix = "onboarding_sessions:"

// KEYS[1] session hash; ARGV[1] ttl seconds (0 = none); ARGV[2..] field/value pairs.
var createScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 2))
if tonumber(ARGV[1]) > 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return 1
`)

var replaceScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 2))
if tonumber(ARGV[1]) > 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return 1
`)

type redisSessionRecordRepo struct {
	rdb goredis.UniversalClient
	ttl time.Duration
	log *logger.Logger
}

// NewRedisSessionRecordRepo stores each session as a hash. A positive ttl
// expires sessions that stop receiving saves.
func NewRedisSessionRecordRepo(rdb goredis.UniversalClient, ttl time.Duration, baseLog *logger.Logger) SessionRecordRepo {
	return &redisSessionRecordRepo{
		rdb: rdb,
		ttl: ttl,
		log: baseLog.With("repo", "RedisSessionRecordRepo"),
	}
}

func (r *redisSessionRecordRepo) Backend() string { return "redis" }

func sessionKey(id uuid.UUID) string { return redisKeyPrefix + id.String() }

func (r *redisSessionRecordRepo) args(rec *domain.SessionRecord, withCreated bool) []interface{} {
	out := []interface{}{
		int64(r.ttl / time.Second),
		"id", rec.ID.String(),
		"form_data", string(rec.FormData),
		"current_step", rec.CurrentStep,
		"last_activity", rec.LastActivity.UTC().Format(time.RFC3339Nano),
		"updated_at", rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if withCreated {
		out = append(out, "created_at", rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	}
	return out
}

func (r *redisSessionRecordRepo) Create(dbc dbctx.Context, rec *domain.SessionRecord) error {
	if rec == nil {
		return fmt.Errorf("nil session record")
	}
	n, err := createScript.Run(dbc.Context(), r.rdb, []string{sessionKey(rec.ID)}, r.args(rec, true)...).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s already exists", rec.ID)
	}
	return nil
}

func (r *redisSessionRecordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SessionRecord, error) {
	fields, err := r.rdb.HGetAll(dbc.Context(), sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return decodeRedisRecord(id, fields)
}

func (r *redisSessionRecordRepo) Replace(dbc dbctx.Context, rec *domain.SessionRecord) error {
	if rec == nil {
		return fmt.Errorf("nil session record")
	}
	n, err := replaceScript.Run(dbc.Context(), r.rdb, []string{sessionKey(rec.ID)}, r.args(rec, false)...).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *redisSessionRecordRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func decodeRedisRecord(id uuid.UUID, fields map[string]string) (*domain.SessionRecord, error) {
	rec := &domain.SessionRecord{ID: id, FormData: []byte(fields["form_data"])}
	step, err := strconv.Atoi(fields["current_step"])
	if err != nil {
		return nil, fmt.Errorf("decode current_step: %w", err)
	}
	rec.CurrentStep = step
	for name, dst := range map[string]*time.Time{
		"last_activity": &rec.LastActivity,
		"created_at":    &rec.CreatedAt,
		"updated_at":    &rec.UpdatedAt,
	} {
		t, err := time.Parse(time.RFC3339Nano, fields[name])
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		*dst = t
	}
	return rec, nil
}
