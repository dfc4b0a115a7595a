package votes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// addVote claims the (topic, username) key and updates every index in one
// server-side step. KEYS: vote, global index, user index, topic tally.
// ARGV: encoded vote, option id.
var addVote = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	redis.call('RPUSH', KEYS[2], KEYS[1])
	redis.call('RPUSH', KEYS[3], KEYS[1])
	redis.call('HINCRBY', KEYS[4], ARGV[2], 1)
	return 1
end
return 0
`)

type redisVote struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TopicID   string    `json:"topic_id"`
	OptionID  string    `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRepository keeps the ledger in Redis.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, prefix: "gophvote:"}
}

func (r *RedisRepository) voteKey(topicID, username string) string {
	return r.prefix + "vote:" + topicID + ":" + username
}

func (r *RedisRepository) allKey() string { return r.prefix + "votes" }

func (r *RedisRepository) userKey(username string) string { return r.prefix + "votes:user:" + username }

func (r *RedisRepository) tallyKey(topicID string) string { return r.prefix + "tally:" + topicID }

func (r *RedisRepository) Add(ctx context.Context, vote *models.Vote) error {
	data, err := json.Marshal(redisVote(*vote))
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}

	keys := []string{
		r.voteKey(vote.TopicID, vote.Username),
		r.allKey(),
		r.userKey(vote.Username),
		r.tallyKey(vote.TopicID),
	}

	added, err := addVote.Run(ctx, r.client, keys, data, vote.OptionID).Int()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if added == 0 {
		return common.ErrDuplicatedVote
	}

	return nil
}

func (r *RedisRepository) GetAll(ctx context.Context) ([]models.Vote, error) {
	return r.listIndex(ctx, r.allKey())
}

func (r *RedisRepository) GetByUsername(ctx context.Context, username string) ([]models.Vote, error) {
	return r.listIndex(ctx, r.userKey(username))
}

func (r *RedisRepository) GetByUserAndTopic(ctx context.Context, username, topicID string) (*models.Vote, error) {
	data, err := r.client.Get(ctx, r.voteKey(topicID, username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return decodeVote(data)
}

func (r *RedisRepository) CountByTopic(ctx context.Context, topicID string) (map[string]int, error) {
	raw, err := r.client.HGetAll(ctx, r.tallyKey(topicID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	counts := make(map[string]int, len(raw))
	for optionID, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("corrupt tally for option %s: %w", optionID, err)
		}
		counts[optionID] = n
	}

	return counts, nil
}

func (r *RedisRepository) listIndex(ctx context.Context, index string) ([]models.Vote, error) {
	keys, err := r.client.LRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	result := make([]models.Vote, 0, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		vote, err := decodeVote(s)
		if err != nil {
			return nil, err
		}
		result = append(result, *vote)
	}

	return result, nil
}

// Ping checks if Redis is reachable.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeVote(data string) (*models.Vote, error) {
	var rv redisVote
	if err := json.Unmarshal([]byte(data), &rv); err != nil {
		return nil, fmt.Errorf("unmarshal vote: %w", err)
	}
	v := models.Vote(rv)
	return &v, nil
}
