package engagement

import (
	"math"

	"github.com/zhouzirui/commcoach/backend/internal/model/face"
)

// Calibration constants tuned against the normalized-coordinate landmark
// scale of the web detector. They are heuristic proxies, not validated
// affect measurements; keep them in sync with the client prototype rather
// than re-deriving them without new calibration data.
const (
	// eyeContactIdealY is the normalized vertical band treated as
	// camera-level gaze.
	eyeContactIdealY = 0.4
	// eyeContactFalloff scales how quickly deviation from the ideal band
	// erodes the eye-contact score.
	eyeContactFalloff = 2.0
	// smileGain amplifies mouth curvature into the [0,1] range. Y grows
	// downward, so smiling corners sit numerically above the mouth center
	// and curvature comes out positive.
	smileGain = 10.0
	// headFalloff scales horizontal nose drift into score loss.
	headFalloff = 5.0
)

// Score summarizes one frame as bounded integer percentages.
type Score struct {
	EyeContact    int `json:"eyeContact"`
	Positivity    int `json:"smile"`
	HeadStability int `json:"headStability"`
	Confidence    int `json:"confidence"`
}

// Analyze converts a single landmark sample into an engagement score. It is
// a pure function of its input: no cross-frame memory, safe to call from any
// goroutine, recomputed in full every frame.
func Analyze(sample face.LandmarkSample) Score {
	eyeContact := eyeContactScore(sample)
	positivity := positivityScore(sample)
	stability := headStabilityScore(sample)

	// The composite averages the raw sub-scores; every field is rounded
	// to a percentage independently.
	confidence := (eyeContact + positivity + stability) / 3

	return Score{
		EyeContact:    toPercent(eyeContact),
		Positivity:    toPercent(positivity),
		HeadStability: toPercent(stability),
		Confidence:    toPercent(confidence),
	}
}

// eyeContactScore treats a fixed camera-level gaze band as ideal and decays
// linearly on either side of it. This is a proxy, not gaze estimation.
func eyeContactScore(sample face.LandmarkSample) float64 {
	eyeLevel := (sample.LeftEyeOuter.Y + sample.RightEyeOuter.Y) / 2
	return math.Max(0, 1-math.Abs(eyeLevel-eyeContactIdealY)*eyeContactFalloff)
}

// positivityScore measures mouth-corner elevation relative to the mouth
// center.
func positivityScore(sample face.LandmarkSample) float64 {
	curvature := (sample.MouthLeft.Y+sample.MouthRight.Y)/2 - sample.MouthCenterTop.Y
	return clamp01(curvature * smileGain)
}

// headStabilityScore penalizes horizontal drift of the nose tip away from
// the face-center reference.
func headStabilityScore(sample face.LandmarkSample) float64 {
	deviation := math.Abs(sample.NoseTip.X - sample.FaceCenterRef.X)
	return math.Max(0, 1-deviation*headFalloff)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toPercent(v float64) int {
	return int(math.Round(v * 100))
}
