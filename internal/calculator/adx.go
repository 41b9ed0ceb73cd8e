package calculator

import (
	"math"

	"MarketPulse/internal/model"
)

// ADXResult holds the average directional index and the directional indicators.
type ADXResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// CalculateADX computes Wilder's ADX over period. Within each run of bars
// with defined high/low/close, +DI/-DI start at offset period and ADX at
// offset 2*period-1.
func CalculateADX(bars model.Series, period int) (*ADXResult, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	n := len(bars)
	res := &ADXResult{ADX: nanSeries(n), PlusDI: nanSeries(n), MinusDI: nanSeries(n)}
	p := float64(period)

	runs := validRuns(n, func(i int) bool {
		b := bars[i]
		return !math.IsNaN(b.High) && !math.IsNaN(b.Low) && !math.IsNaN(b.Close)
	})
	for _, r := range runs {
		if r.len() < period+1 {
			continue
		}

		var trSum, plusSum, minusSum float64
		for i := r.start + 1; i <= r.start+period; i++ {
			tr, pdm, mdm := directionalMove(bars[i-1], bars[i])
			trSum += tr
			plusSum += pdm
			minusSum += mdm
		}

		var dxSum, adx float64
		dxCount := 0
		for i := r.start + period; i < r.end; i++ {
			if i > r.start+period {
				tr, pdm, mdm := directionalMove(bars[i-1], bars[i])
				trSum = trSum - trSum/p + tr
				plusSum = plusSum - plusSum/p + pdm
				minusSum = minusSum - minusSum/p + mdm
			}

			plusDI, minusDI := 0.0, 0.0
			if trSum > 0 {
				plusDI = plusSum / trSum * 100
				minusDI = minusSum / trSum * 100
			}
			res.PlusDI[i] = plusDI
			res.MinusDI[i] = minusDI

			dx := 0.0
			if plusDI+minusDI > 0 {
				dx = math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
			}

			dxCount++
			switch {
			case dxCount < period:
				dxSum += dx
			case dxCount == period:
				dxSum += dx
				adx = dxSum / p
				res.ADX[i] = adx
			default:
				adx = (adx*(p-1) + dx) / p
				res.ADX[i] = adx
			}
		}
	}
	return res, nil
}

// directionalMove returns true range, +DM and -DM for cur against prev.
func directionalMove(prev, cur model.OHLCV) (tr, plusDM, minusDM float64) {
	upMove := cur.High - prev.High
	downMove := prev.Low - cur.Low
	if upMove > downMove && upMove > 0 {
		plusDM = upMove
	}
	if downMove > upMove && downMove > 0 {
		minusDM = downMove
	}
	tr = math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
	return tr, plusDM, minusDM
}
