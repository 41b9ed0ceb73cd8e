package calculator

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// The first value of each NaN-free run appears after period price changes,
// i.e. at offset period. Output lies in [0, 100]; a window with neither
// gains nor losses is 50.
func CalculateRSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	out := nanSeries(len(closes))
	p := float64(period)

	for _, r := range definedRuns(closes) {
		if r.len() < period+1 {
			continue
		}

		// Initial average gain/loss over the first `period` changes
		var avgGain, avgLoss float64
		for i := r.start + 1; i <= r.start+period; i++ {
			change := closes[i] - closes[i-1]
			if change > 0 {
				avgGain += change
			} else {
				avgLoss -= change
			}
		}
		avgGain /= p
		avgLoss /= p
		out[r.start+period] = rsiFromAverages(avgGain, avgLoss)

		// Wilder smoothing for remaining bars
		for i := r.start + period + 1; i < r.end; i++ {
			change := closes[i] - closes[i-1]
			gain, loss := 0.0, 0.0
			if change > 0 {
				gain = change
			} else {
				loss = -change
			}
			avgGain = (avgGain*(p-1) + gain) / p
			avgLoss = (avgLoss*(p-1) + loss) / p
			out[i] = rsiFromAverages(avgGain, avgLoss)
		}
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
