package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tabletalk-ai/tabletalk/booking"
)

var greetingWords = []string{"hello", "hi", "hey", "howdy"}
var greetingPhrases = []string{"good morning", "good afternoon", "good evening"}

var firstInteger = regexp.MustCompile(`\d+`)

// Fallback is the deterministic, step-scoped extractor used whenever the
// completion service is unavailable or its reply is unparsable. It handles
// the opening steps of the flow and answers everything else with a polite
// repeat request, leaving the context untouched.
func Fallback(message string, ctx booking.Context) Result {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	switch {
	case ctx.Step == booking.StepGreeting || containsGreeting(lower):
		ctx.Step = booking.StepCollectName
		return Result{
			Response: "Hello! I'd be happy to help you book a table. May I have your name?",
			Context:  ctx,
		}

	case ctx.Step == booking.StepCollectName && ctx.CustomerName == "":
		name := trimmed
		if words := strings.Fields(name); len(words) > 3 {
			name = strings.Join(words[:2], " ")
		}
		ctx.CustomerName = name
		ctx.Step = booking.StepCollectGuests
		return Result{
			Response: fmt.Sprintf("Nice to meet you, %s! How many guests should I book for?", name),
			Context:  ctx,
		}

	case ctx.Step == booking.StepCollectGuests:
		if digits := firstInteger.FindString(trimmed); digits != "" {
			n, _ := strconv.Atoi(digits)
			ctx.NumberOfGuests = booking.ClampGuests(n)
			ctx.Step = booking.StepCollectDate
			return Result{
				Response: fmt.Sprintf("A table for %d, noted. What date would you like? (for example 2026-09-12)", ctx.NumberOfGuests),
				Context:  ctx,
			}
		}
	}

	return Result{
		Response: "Sorry, I didn't quite catch that. Could you say it again?",
		Context:  ctx,
	}
}

// containsGreeting matches greeting words on word boundaries; "hi" inside
// "chicken" or a name like "Hilda" must not count.
func containsGreeting(lower string) bool {
	for _, p := range greetingPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, g := range greetingWords {
			if w == g {
				return true
			}
		}
	}
	return false
}
