package redis

import (
	"context"
	"encoding/json"

	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/redis/go-redis/v9"
)

// AssignmentKeyPrefix is the prefix for tender assignment keys in Redis
const AssignmentKeyPrefix = "tender_assignments:"

// Repository implements TenderAssignmentRepository using Redis. Assignments
// are stored without a TTL: the button layout of a till device survives
// restarts.
type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Get retrieves the ordered tender ranks assigned to a device. A device with
// no stored assignment gets an empty list, not an error.
func (r *Repository) Get(ctx context.Context, deviceID string) ([]int, error) {
	key := AssignmentKeyPrefix + deviceID
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return []int{}, nil
	}
	if err != nil {
		return nil, core.Internalf(err, "failed to get tender assignments")
	}

	var ranks []int
	if err := json.Unmarshal([]byte(val), &ranks); err != nil {
		return nil, core.Internalf(err, "failed to unmarshal tender assignments")
	}

	return ranks, nil
}

// Set stores the ordered tender ranks for a device
func (r *Repository) Set(ctx context.Context, deviceID string, ranks []int) error {
	key := AssignmentKeyPrefix + deviceID
	if ranks == nil {
		ranks = []int{}
	}

	data, err := json.Marshal(ranks)
	if err != nil {
		return core.Internalf(err, "failed to marshal tender assignments")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return core.Internalf(err, "failed to set tender assignments")
	}

	return nil
}
