package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingNamespace = "pending_login"
	handlePrefix     = "handle:"
	employeePrefix   = "employee:"
)

// swapPendingLogin drops the employee's previous handle and stores the new
// one with its reverse index in a single step.
// KEYS[1] handle key, KEYS[2] employee key; ARGV token, employee id,
// handle key prefix, ttl in milliseconds.
var swapPendingLogin = redis.NewScript(`
local previous = redis.call('GET', KEYS[2])
if previous and previous ~= ARGV[1] then
	redis.call('DEL', ARGV[3] .. previous)
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[4])
redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[4])
return 1
`)

// PendingLogins keeps the handle issued after a successful credential check.
// Each employee has at most one live handle; saving a new one drops the old.
type PendingLogins struct {
	cache *Cache
}

func NewPendingLogins(cache *Cache) *PendingLogins {
	return &PendingLogins{cache: cache}
}

func (p *PendingLogins) Save(ctx context.Context, token string, employeeID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("save pending login: ttl must be positive, got %s", ttl)
	}

	_, err := p.cache.Eval(ctx, swapPendingLogin, pendingNamespace,
		[]string{handlePrefix + token, employeePrefix + employeeID.String()},
		token, employeeID.String(), key(pendingNamespace, handlePrefix), ttl.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save pending login: %w", err)
	}
	return nil
}

// Find resolves a handle. ok is false when it is unknown or expired.
func (p *PendingLogins) Find(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := p.cache.Get(ctx, pendingNamespace, handlePrefix+token)
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find pending login: %w", err)
	}

	employeeID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt pending login %q: %w", val, err)
	}
	return employeeID, true, nil
}
