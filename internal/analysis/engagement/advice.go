package engagement

// Advisory messages surfaced next to the live score. The order of checks is
// fixed: confidence tiers first, then per-metric nudges, then a generic
// encouragement. Callers rely on this priority being stable.
const (
	adviceTopConfidence  = "You look very confident! 🌟"
	adviceGoodConfidence = "Good confidence level! 👍"
	adviceLowConfidence  = "Try to maintain better eye contact 👀"
	adviceEyeContact     = "Focus on looking at the camera 📹"
	adviceSmile          = "A gentle smile can boost confidence 😊"
	adviceHeadSteady     = "Try to keep your head steady 🎯"
	adviceKeepPracticing = "Keep practicing - you're improving! 💪"
)

// Advise maps a score to a coaching hint.
func Advise(score Score) string {
	switch {
	case score.Confidence >= 80:
		return adviceTopConfidence
	case score.Confidence >= 60:
		return adviceGoodConfidence
	case score.Confidence >= 40:
		return adviceLowConfidence
	case score.EyeContact < 50:
		return adviceEyeContact
	case score.Positivity < 30:
		return adviceSmile
	case score.HeadStability < 50:
		return adviceHeadSteady
	default:
		return adviceKeepPracticing
	}
}
