package indicators

import "math"

type RSIService struct{}

func NewRSIService() *RSIService {
	return &RSIService{}
}

// Calculate computes RSI using Wilder's smoothing. The first `period`
// slots are zero. Period 14 is conventional.
func (s *RSIService) Calculate(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	rsi := make([]float64, len(prices))

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += math.Abs(change)
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = s.value(avgGain, avgLoss)

	// Wilder smoothing: alpha = 1/period
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = math.Abs(change)
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = s.value(avgGain, avgLoss)
	}

	return rsi
}

func (s *RSIService) value(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
