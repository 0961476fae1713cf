package resilience

// Guard puts a circuit breaker and per-key call deduplication in front of
// an upstream request. Only errors accepted by isFailure trip the breaker.
type Guard struct {
	breaker   *CircuitBreaker
	enabled   bool
	flight    Flight[[]byte]
	isFailure func(error) bool
}

// NewGuard builds a guard. onChange may be nil.
func NewGuard(cfg CircuitBreakerConfig, isFailure func(error) bool, onChange StateChangeFunc) *Guard {
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}
	return &Guard{
		breaker:   NewCircuitBreaker(cfg, onChange),
		enabled:   cfg.Enabled,
		isFailure: isFailure,
	}
}

func (g *Guard) State() CircuitState {
	if !g.enabled {
		return CircuitStateClosed
	}
	return g.breaker.State()
}

// Do returns ErrCircuitOpen without calling fn while the breaker is open.
func (g *Guard) Do(key string, fn func() ([]byte, error)) ([]byte, error) {
	if g.enabled {
		if err := g.breaker.Allow(); err != nil {
			return nil, err
		}
	}

	raw, _, err := g.flight.Do(key, func() ([]byte, error) {
		raw, err := fn()
		if g.enabled {
			g.breaker.Record(err != nil && g.isFailure(err))
		}
		return raw, err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
