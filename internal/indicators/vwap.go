package indicators

type VWAPService struct{}

func NewVWAPService() *VWAPService {
	return &VWAPService{}
}

// Calculate computes the cumulative volume-weighted average price over
// the supplied window: cumsum(close*volume) / cumsum(volume).
func (s *VWAPService) Calculate(closes []float64, volumes []float64) []float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return nil
	}

	vwap := make([]float64, len(closes))
	var cumPV, cumVol float64
	for i := range closes {
		cumPV += closes[i] * volumes[i]
		cumVol += volumes[i]
		if cumVol == 0 {
			vwap[i] = 0
			continue
		}
		vwap[i] = cumPV / cumVol
	}

	return vwap
}
