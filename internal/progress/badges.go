package progress

// Badge is an achievement unlocked by reaching a threshold.
type Badge struct {
	ID          string
	Icon        string
	Name        string
	Description string
	Unlocked    bool
}

type badgeRule struct {
	id, icon, name, desc string
	unlocked             func(State) bool
}

var badgeRules = []badgeRule{
	{"first-workout", "🎯", "First Step", "Complete your first workout",
		func(s State) bool { return s.StreakCount >= 1 }},
	{"week-warrior", "🏆", "Week Warrior", "7 days streak",
		func(s State) bool { return s.StreakCount >= 7 }},
	{"consistency-master", "🔥", "Consistency Master", "30 days streak",
		func(s State) bool { return s.StreakCount >= 30 }},
	{"hydration-hero", "💧", "Hydration Hero", "Drink 2L water",
		func(s State) bool { return s.WaterIntakeMl >= MaxWaterMl }},
	{"step-champion", "👟", "Step Champion", "10K steps in a day",
		func(s State) bool { return s.StepCount >= MaxSteps }},
	{"workout-king", "👑", "Workout King", "Complete 50 workouts",
		func(s State) bool { return s.StreakCount >= 50 }},
}

// Badges evaluates every badge against s, in a fixed order.
func Badges(s State) []Badge {
	out := make([]Badge, 0, len(badgeRules))
	for _, r := range badgeRules {
		out = append(out, Badge{
			ID:          r.id,
			Icon:        r.icon,
			Name:        r.name,
			Description: r.desc,
			Unlocked:    r.unlocked(s),
		})
	}
	return out
}

// UnlockedCount counts unlocked badges.
func UnlockedCount(badges []Badge) int {
	n := 0
	for _, b := range badges {
		if b.Unlocked {
			n++
		}
	}
	return n
}
