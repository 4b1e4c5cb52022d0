package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts  = 3
	defaultDelay     = 200 * time.Millisecond
	defaultMaxDelay  = 2 * time.Second
	defaultMaxJitter = 100 * time.Millisecond
)

// RetryConfig is the env-driven retry policy for outbound calls
type RetryConfig struct {
	Attempts  uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay     time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay  time.Duration `env:"MAX_DELAY" envDefault:"2s"`
	MaxJitter time.Duration `env:"MAX_JITTER" envDefault:"100ms"`
}

// ToRetryOptions maps the policy onto exponential backoff with random jitter
func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	if rc.Attempts <= 1 {
		return []retry.Option{retry.Attempts(1)}
	}

	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.MaxJitter(rc.MaxJitter),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts:  defaultAttempts,
		Delay:     defaultDelay,
		MaxDelay:  defaultMaxDelay,
		MaxJitter: defaultMaxJitter,
	}
}
