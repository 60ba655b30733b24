package sim

import (
	"math"

	"github.com/twinforge/twinforge/internal/script"
)

// trendDeadband is the absolute change below which a KPI reads as flat.
const trendDeadband = 0.15

// Oscillation period and mix constants. These are fixed so that a KPI value
// at any t is reproducible bit-for-bit across runs and platforms.
const (
	wobbleFastPeriod = 9.0
	wobbleSlowPeriod = 23.0
	wobbleFastMix    = 0.6
	wobbleSlowMix    = 0.4
	wobbleSlowSkew   = 1.7
)

// rampWeight is a clamped linear ramp over the window: 0 before Start,
// 1 after End.
func rampWeight(t int, w script.Window) float64 {
	frac := float64(t-w.Start) / float64(w.End-w.Start)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// oscillation is the deterministic two-sine noise term for one KPI.
func oscillation(t int, w script.Wobble) float64 {
	ft := float64(t)
	fast := math.Sin(ft/wobbleFastPeriod + w.Phase)
	slow := math.Sin(ft/wobbleSlowPeriod + w.Phase*wobbleSlowSkew)
	return w.Amplitude * (wobbleFastMix*fast + wobbleSlowMix*slow)
}

// projectKPIs recomputes every KPI's value, confidence, and trend from t.
// Before the data-arrival phase begins values stay nil and confidence 0.
func (e *Engine) projectKPIs(t int) {
	weights := e.scn.Weights
	dataW := rampWeight(t, weights.Data)
	stabW := rampWeight(t, weights.Stabilize)
	confW := rampWeight(t, weights.Confidence)

	for i, spec := range e.scn.KPIs {
		kpi := &e.kpis[i]
		if t < weights.Data.Start {
			kpi.Value = nil
			kpi.Confidence = 0
			kpi.Trend = TrendFlat
			delete(e.prevValues, spec.Key)
			continue
		}

		value := spec.Baseline*stabW + oscillation(t, spec.Wobble)

		base := spec.Ceiling * dataW
		raised := base + (100-base)*confW
		kpi.Confidence = int(math.Round(math.Max(base, raised)))

		if prev, ok := e.prevValues[spec.Key]; ok {
			kpi.Trend = trendOf(prev, value)
		} else {
			kpi.Trend = TrendFlat
		}
		v := value
		kpi.Value = &v
		e.prevValues[spec.Key] = value
	}
}

func trendOf(prev, next float64) Trend {
	delta := next - prev
	if math.Abs(delta) <= trendDeadband {
		return TrendFlat
	}
	if delta > 0 {
		return TrendUp
	}
	return TrendDown
}
