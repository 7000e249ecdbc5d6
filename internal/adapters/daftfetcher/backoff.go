package daftfetcher

import "time"

// BackoffPolicy определяет паузу перед повторной попыткой с номером attempt
// (нумерация с 1). Вынесено в интерфейс, чтобы стратегию можно было
// заменить, не трогая цикл повторов в fetch.
type BackoffPolicy interface {
	NextDelay(attempt int) time.Duration
}

// FixedDelayPolicy - фиксированная пауза между попытками, без джиттера.
// Так делает источник; более агрессивные стратегии подключаются через
// BackoffPolicy.
type FixedDelayPolicy struct {
	delay time.Duration
}

func NewFixedDelayPolicy(delay time.Duration) *FixedDelayPolicy {
	return &FixedDelayPolicy{delay: delay}
}

func (p *FixedDelayPolicy) NextDelay(attempt int) time.Duration {
	return p.delay
}

// ExponentialPolicy - удвоение базовой паузы на каждую попытку,
// с верхней границей.
type ExponentialPolicy struct {
	base time.Duration
	max  time.Duration
}

func NewExponentialPolicy(base, max time.Duration) *ExponentialPolicy {
	return &ExponentialPolicy{base: base, max: max}
}

func (p *ExponentialPolicy) NextDelay(attempt int) time.Duration {
	delay := p.base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.max {
			return p.max
		}
	}
	if delay > p.max {
		return p.max
	}
	return delay
}
