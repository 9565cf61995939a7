package dialogue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/nlu"
	"github.com/tabletalk-ai/tabletalk/weather"
)

// TurnResult is the engine output for a single turn: the assistant's
// response paired with the updated context, plus the created booking when
// the turn completed one.
type TurnResult struct {
	Response        string
	Context         booking.Context
	BookingComplete bool
	Booking         *booking.Booking
}

// BookingCreator is the slice of the store the engine needs.
type BookingCreator interface {
	Create(ctx context.Context, payload booking.InsertBooking) (booking.Booking, error)
}

// Engine is the dialogue controller: a step-indexed state machine that
// special-cases the weather, seating, special-requests and confirmation
// turns, and delegates everything else to the NLU adapter. It holds no
// per-conversation state of its own; the context is round-tripped by the
// caller.
type Engine struct {
	nlu      *nlu.Adapter
	resolver *weather.Resolver
	store    BookingCreator
	log      *zap.Logger
	now      func() time.Time
}

// New wires the engine's collaborators together.
func New(adapter *nlu.Adapter, resolver *weather.Resolver, store BookingCreator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{nlu: adapter, resolver: resolver, store: store, log: log, now: time.Now}
}

// HandleTurn processes one (message, context) pair. The returned error is
// non-nil only for a booking-creation failure; every other upstream problem
// is recovered inside the turn.
func (e *Engine) HandleTurn(ctx context.Context, message string, bctx booking.Context) (TurnResult, error) {
	bctx = bctx.Normalize()

	// Weather wins over everything else: as soon as location and date are
	// both known and no summary is attached, this turn fetches it,
	// regardless of what the user said.
	if needsWeather(bctx) {
		return e.weatherTurn(ctx, bctx), nil
	}

	switch bctx.Step {
	case booking.StepSuggestSeating:
		return e.seatingTurn(message, bctx), nil
	case booking.StepSpecialRequests:
		return e.specialRequestsTurn(message, bctx), nil
	case booking.StepConfirmBooking:
		if isConfirmation(message) {
			return e.confirmTurn(ctx, bctx)
		}
		// Not a confirmation: fall through to the general NLU path so the
		// guest can still amend details.
	}

	res := e.nlu.Interpret(ctx, message, effectiveContext(bctx))
	out := TurnResult{
		Response:        res.Response,
		Context:         res.Context,
		BookingComplete: res.BookingComplete,
	}

	// If this turn just completed the location+date pair, fetch weather
	// immediately instead of waiting for another round trip.
	if needsWeather(out.Context) {
		wt := e.weatherTurn(ctx, out.Context)
		out.Context = wt.Context
		out.Response = out.Response + "\n\n" + wt.Response
	}
	return out, nil
}

// effectiveContext substitutes collect_name for greeting on the NLU path so
// the model is never asked to re-greet.
func effectiveContext(bctx booking.Context) booking.Context {
	if bctx.Step == booking.StepGreeting {
		bctx.Step = booking.StepCollectName
	}
	return bctx
}

func needsWeather(c booking.Context) bool {
	return c.Location != "" && c.BookingDate != "" && c.WeatherInfo == nil &&
		c.Step != booking.StepBookingComplete
}

func (e *Engine) weatherTurn(ctx context.Context, bctx booking.Context) TurnResult {
	summary := e.resolver.Resolve(ctx, bctx.BookingDate, bctx.Location)
	rationale, pref := weather.Recommend(summary.Condition, summary.Temperature)

	bctx.WeatherInfo = &summary
	bctx.SeatingPreference = pref
	bctx.Step = booking.StepSuggestSeating

	resp := fmt.Sprintf("The weather in %s on %s should be %s, around %.0f°C. %s %s",
		bctx.Location, formatDate(bctx.BookingDate), summary.Description,
		summary.Temperature, rationale, seatingQuestion(pref))
	return TurnResult{Response: resp, Context: bctx}
}

func (e *Engine) seatingTurn(message string, bctx booking.Context) TurnResult {
	lower := lowercase(message)
	switch {
	case containsAny(lower, "outdoor", "outside", "patio"):
		bctx.SeatingPreference = booking.SeatingOutdoor
	case containsAny(lower, "indoor", "inside"):
		bctx.SeatingPreference = booking.SeatingIndoor
	case containsAny(lower, "yes", "sure", "sounds good"):
		if bctx.SeatingPreference == "" {
			bctx.SeatingPreference = booking.SeatingIndoor
		}
	}
	// Anything else leaves the existing preference untouched.

	bctx.Step = booking.StepSpecialRequests
	return TurnResult{
		Response: fmt.Sprintf("%s Do you have any special requests for your visit — a birthday, a high chair, anything at all?",
			seatingAck(bctx.SeatingPreference)),
		Context: bctx,
	}
}

func (e *Engine) specialRequestsTurn(message string, bctx booking.Context) TurnResult {
	if !containsAny(lowercase(message), "no", "none", "nothing") {
		bctx.SpecialRequests = trim(message)
	}
	bctx.Step = booking.StepConfirmBooking

	return TurnResult{
		Response: fmt.Sprintf("Here's what I have for you:\n%s\nShall I confirm this booking?",
			renderSummary(bctx)),
		Context: bctx,
	}
}

func (e *Engine) confirmTurn(ctx context.Context, bctx booking.Context) (TurnResult, error) {
	payload := withDefaults(bctx, e.now())

	b, err := e.store.Create(ctx, payload)
	if err != nil {
		e.log.Error("booking creation failed", zap.Error(err))
		return TurnResult{
			Response: "I'm very sorry — something went wrong while saving your reservation. Could you try confirming again in a moment?",
			Context:  bctx,
		}, fmt.Errorf("create booking: %w", err)
	}

	bctx.Step = booking.StepBookingComplete
	resp := fmt.Sprintf("Wonderful! Your reservation is confirmed.\n\nBooking ID: %s\nName: %s\nDate: %s at %s\n\nWe look forward to seeing you, %s!",
		b.BookingID, b.CustomerName, formatDate(b.BookingDate), b.BookingTime, b.CustomerName)

	return TurnResult{
		Response:        resp,
		Context:         bctx,
		BookingComplete: true,
		Booking:         &b,
	}, nil
}
