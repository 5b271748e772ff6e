package worker

import "time"

// RetryPolicy задает экспоненциальную паузу между попытками доставки.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay возвращает паузу перед попыткой attempt (нумерация с единицы).
// Нулевая политика дает секунду с удвоением.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	for i := 1; i < attempt; i++ {
		next := time.Duration(float64(delay) * factor)
		if next <= delay {
			// Переполнение, дальше расти некуда.
			delay = p.MaxDelay
			break
		}
		delay = next
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}

	if delay <= 0 {
		delay = time.Second
	}
	return delay
}
