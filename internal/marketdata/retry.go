package marketdata

import "time"

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	Multiplier  float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// RetryWithBackoff runs fn up to MaxAttempts times with exponential
// backoff between attempts, returning the last error.
func RetryWithBackoff(fn func() error, cfg RetryConfig) error {
	wait := cfg.InitialWait
	var err error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(wait)
			wait = time.Duration(float64(wait) * cfg.Multiplier)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
