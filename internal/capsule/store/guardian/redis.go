package guardian

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
)

const keyPrefix = "capsule:guardians:"

// addScript keeps the membership set and the ordered list in step: the list
// only grows when SADD reports a new member.
var addScript = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 1 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
  return 1
end
return 0
`)

// RedisStore keeps a set for membership checks and a list for registration
// order. Both keys share a hash tag so they land in the same cluster slot.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func setKey(owner id.IdentityKey) string {
	return keyPrefix + "{" + owner.String() + "}:set"
}

func listKey(owner id.IdentityKey) string {
	return keyPrefix + "{" + owner.String() + "}:list"
}

func (s *RedisStore) Add(ctx context.Context, owner id.IdentityKey, address string) (models.AddStatus, error) {
	added, err := addScript.Run(ctx, s.client, []string{setKey(owner), listKey(owner)}, address).Int()
	if err != nil {
		return "", fmt.Errorf("add guardian: %w", err)
	}
	if added == 1 {
		return models.AddStatusAdded, nil
	}
	return models.AddStatusAlreadyExists, nil
}

func (s *RedisStore) ListByOwner(ctx context.Context, owner id.IdentityKey) ([]string, error) {
	guardians, err := s.client.LRange(ctx, listKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	if guardians == nil {
		guardians = []string{}
	}
	return guardians, nil
}

func (s *RedisStore) IsGuardianOf(ctx context.Context, owner id.IdentityKey, candidate string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, setKey(owner), candidate).Result()
	if err != nil {
		return false, fmt.Errorf("check guardian: %w", err)
	}
	return ok, nil
}
