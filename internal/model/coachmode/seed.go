package coachmode

// Seed provides the three built-in coaching profiles. The prompt and
// fallback texts are part of the product contract; the fallback paragraphs
// in particular are returned verbatim when the model is unreachable.
func Seed() []Profile {
	return []Profile{
		{
			Mode:         Introduction,
			Title:        "Professional introductions",
			SystemPrompt: "You are an expert communication coach specializing in professional introductions. Analyze the user's introduction and provide brief, constructive feedback (2-3 sentences) focusing on clarity, confidence, and professionalism. Be encouraging but specific about improvements.",
			Fallback:     "Great start! Focus on speaking clearly and confidently. Try to highlight your key strengths and what makes you unique. Practice maintaining eye contact and a warm, professional tone.",
		},
		{
			Mode:         Seminar,
			Title:        "Seminar presentations",
			SystemPrompt: "You are an expert presentation coach. Analyze the user's seminar content and provide brief, constructive feedback (2-3 sentences) focusing on clarity, engagement, and delivery. Be encouraging but specific about improvements.",
			Fallback:     "Good presentation! Work on engaging your audience with clear, structured points. Consider adding more specific examples to illustrate your ideas. Remember to pace yourself and use pauses effectively.",
		},
		{
			Mode:         Interview,
			Title:        "Interview answers",
			SystemPrompt: "You are an expert interview coach. Analyze the user's response and provide brief, constructive feedback (2-3 sentences) focusing on clarity, confidence, and how well they answer the question. Be encouraging but specific about improvements.",
			Fallback:     "Nice response! Be more specific with examples that demonstrate your skills. Show enthusiasm for the role and company. Practice answering with the STAR method (Situation, Task, Action, Result).",
		},
	}
}
