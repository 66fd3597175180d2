package indicators

type MACDService struct{}

type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

func NewMACDService() *MACDService {
	return &MACDService{}
}

// Calculate returns MACD line, signal line, and histogram.
// Default periods: fast=12, slow=26, signal=9. The exponential means
// use adjusted weighting, so every slot is defined even when the series
// is shorter than the slow period.
func (s *MACDService) Calculate(prices []float64, fastPeriod, slowPeriod, signalPeriod int) *MACDResult {
	if !s.ValidatePeriods(prices, fastPeriod, slowPeriod, signalPeriod) {
		return nil
	}

	fast := weightedEMA(prices, fastPeriod)
	slow := weightedEMA(prices, slowPeriod)

	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = fast[i] - slow[i]
	}

	signalLine := weightedEMA(macdLine, signalPeriod)

	histogram := make([]float64, len(prices))
	for i := range prices {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return &MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

func (s *MACDService) ValidatePeriods(prices []float64, fastPeriod, slowPeriod, signalPeriod int) bool {
	return len(prices) > 0 &&
		fastPeriod > 0 &&
		slowPeriod > fastPeriod &&
		signalPeriod > 0
}

// weightedEMA is the adjusted exponential moving average: each slot is
// the weighted mean of every observation so far with weights
// (1-alpha)^age, alpha = 2/(period+1). Early slots carry real values
// instead of zeros.
func weightedEMA(values []float64, period int) []float64 {
	alpha := 2.0 / float64(period+1)
	decay := 1 - alpha

	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = num*decay + v
		den = den*decay + 1
		out[i] = num / den
	}
	return out
}
