package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/contest/domain"
	"github.com/programme-lv/contests/logger"
	"github.com/redis/go-redis/v9"
)

// RedisContestRepo stores every contest as one JSON value. Writes are
// WATCH/MULTI transactions that compare the stored version first.
type RedisContestRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisContestRepo(rdb *redis.Client, prefix string) *RedisContestRepo {
	return &RedisContestRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisContestRepo) contestKey(id uuid.UUID) string {
	return fmt.Sprintf("%scontest:%s", r.prefix, id)
}

func (r *RedisContestRepo) indexKey() string {
	return r.prefix + "contests"
}

func (r *RedisContestRepo) GetContest(ctx context.Context, id uuid.UUID) (domain.Contest, error) {
	data, err := r.rdb.Get(ctx, r.contestKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Contest{}, domain.ErrContestNotFound
	}
	if err != nil {
		return domain.Contest{}, fmt.Errorf("failed to get contest %s: %w", id, err)
	}
	return decodeContest(data)
}

func (r *RedisContestRepo) ListContests(ctx context.Context) ([]domain.Contest, error) {
	ids, err := r.rdb.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list contest ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.prefix+"contest:"+id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get contests: %w", err)
	}

	res := make([]domain.Contest, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // deleted between SMEMBERS and MGET
		}
		c, err := decodeContest([]byte(s))
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (r *RedisContestRepo) SaveContest(ctx context.Context, c *domain.Contest) error {
	key := r.contestKey(c.UUID)
	next := c.Clone()
	next.Version = c.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal contest: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if c.Version != 0 {
				return domain.ErrContestNotFound
			}
		case err != nil:
			return err
		default:
			stored, err := decodeContest(cur)
			if err != nil {
				return err
			}
			if stored.Version != c.Version {
				return domain.ErrVersionConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, r.indexKey(), c.UUID.String())
			return nil
		})
		return err
	}

	err = r.rdb.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrVersionConflict
	}
	if errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, domain.ErrContestNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save contest %s: %w", c.UUID, err)
	}

	logger.FromContext(ctx).Debug("saved contest", "contest_uuid", c.UUID, "version", next.Version)
	c.Version = next.Version
	return nil
}

func (r *RedisContestRepo) DeleteContest(ctx context.Context, id uuid.UUID) error {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.contestKey(id))
		pipe.SRem(ctx, r.indexKey(), id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete contest %s: %w", id, err)
	}
	if del.Val() == 0 {
		return domain.ErrContestNotFound
	}
	return nil
}

func decodeContest(data []byte) (domain.Contest, error) {
	var c domain.Contest
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Contest{}, fmt.Errorf("failed to unmarshal contest: %w", err)
	}
	return c, nil
}

// RedisSubmRepo keeps each contest's submissions in a hash keyed by
// submission uuid.
type RedisSubmRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSubmRepo(rdb *redis.Client, prefix string) *RedisSubmRepo {
	return &RedisSubmRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisSubmRepo) submsKey(contestUUID uuid.UUID) string {
	return fmt.Sprintf("%scontest:%s:subms", r.prefix, contestUUID)
}

func (r *RedisSubmRepo) StoreSubm(ctx context.Context, s domain.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	added, err := r.rdb.HSetNX(ctx, r.submsKey(s.ContestUUID), s.UUID.String(), data).Result()
	if err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	if !added {
		return domain.ErrSubmissionExists
	}
	return nil
}

func (r *RedisSubmRepo) ListSubms(ctx context.Context, contestUUID uuid.UUID, userUUID uuid.UUID) ([]domain.Submission, error) {
	all, err := r.rdb.HGetAll(ctx, r.submsKey(contestUUID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	var res []domain.Submission
	for _, v := range all {
		var s domain.Submission
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
		}
		if s.UserUUID == userUUID {
			res = append(res, s)
		}
	}
	return res, nil
}
