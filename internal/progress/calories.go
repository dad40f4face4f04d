package progress

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidCalorieInput = errors.New("select an activity and a positive duration")

// Calories burned per minute by activity.
var calorieRates = map[string]int{
	"running":  11,
	"cycling":  8,
	"swimming": 10,
	"walking":  4,
	"yoga":     3,
	"hiit":     12,
	"strength": 6,
}

// Activities lists the activities EstimateCalories knows, sorted.
func Activities() []string {
	names := make([]string, 0, len(calorieRates))
	for name := range calorieRates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EstimateCalories returns the calories burned by minutes of activity.
func EstimateCalories(activity string, minutes int) (int, error) {
	rate, ok := calorieRates[strings.ToLower(strings.TrimSpace(activity))]
	if !ok || minutes <= 0 {
		return 0, fmt.Errorf("%w: %q for %d min", ErrInvalidCalorieInput, activity, minutes)
	}
	return rate * minutes, nil
}
