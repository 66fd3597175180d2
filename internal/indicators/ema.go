package indicators

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes EMA for the entire price series. The first
// period-1 slots are zero; slot period-1 seeds with the SMA.
func (s *EMAService) Calculate(prices []float64, period int) []float64 {
	if !s.validateInputs(prices, period) {
		return nil
	}

	ema := make([]float64, len(prices))
	multiplier := s.getMultiplier(period)

	ema[period-1] = s.calculateInitialSMA(prices, period)
	for i := period; i < len(prices); i++ {
		ema[i] = (prices[i]-ema[i-1])*multiplier + ema[i-1]
	}

	return ema
}

func (s *EMAService) validateInputs(prices []float64, period int) bool {
	return len(prices) > 0 && period > 0 && len(prices) >= period
}

func (s *EMAService) getMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

func (s *EMAService) calculateInitialSMA(prices []float64, period int) float64 {
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}
