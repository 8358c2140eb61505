package ts

import "fmt"

// MaxTenure ограничивает длину табу-памяти (2·MaxTenure ячеек).
const MaxTenure = 1 << 20

type Config struct {
	// Tenure задаёт длину табу-памяти: 2·Tenure ячеек.
	Tenure int

	Iterations int

	// MaxTimeSeconds — лимит времени работы; проверяется раз в итерацию.
	MaxTimeSeconds int

	// Probabilistic включает случайное сокращение списка кандидатов.
	Probabilistic bool

	// Diversification включает диверсификацию по частотам элементов.
	Diversification bool
}

func DefaultConfig() Config {
	return Config{
		Tenure:         20,
		Iterations:     5000,
		MaxTimeSeconds: 30 * 60,

		Probabilistic:   false,
		Diversification: true,
	}
}

func (c Config) Validate() error {
	if c.Tenure <= 0 {
		return fmt.Errorf(
			"Tenure должно быть > 0 (получено %d)",
			c.Tenure,
		)
	}
	if c.Tenure > MaxTenure {
		return fmt.Errorf(
			"Tenure должно быть <= %d (получено %d)",
			MaxTenure,
			c.Tenure,
		)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf(
			"Iterations должно быть > 0 (получено %d)",
			c.Iterations,
		)
	}
	if c.MaxTimeSeconds <= 0 {
		return fmt.Errorf(
			"MaxTimeSeconds должно быть > 0 (получено %d)",
			c.MaxTimeSeconds,
		)
	}
	return nil
}

// diversificationPeriod — каждые сколько итераций выполняется диверсификация.
// 0 означает, что диверсификация не выполняется.
func (c Config) diversificationPeriod() int {
	if !c.Diversification {
		return 0
	}
	return c.Iterations / 10
}
