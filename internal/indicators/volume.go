package indicators

// TrailingAverageVolume returns the mean volume of the last `window`
// bars, or 0 when fewer bars are available.
func TrailingAverageVolume(volumes []float64, window int) float64 {
	if window <= 0 || len(volumes) < window {
		return 0
	}

	sum := 0.0
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	return sum / float64(window)
}
