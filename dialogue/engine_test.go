package dialogue_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/dialogue"
	"github.com/tabletalk-ai/tabletalk/nlu"
	"github.com/tabletalk-ai/tabletalk/store"
	"github.com/tabletalk-ai/tabletalk/weather"
)

// ---- mock store ------------------------------------------------------------

type mockCreator struct {
	create func(ctx context.Context, payload booking.InsertBooking) (booking.Booking, error)
}

func (m *mockCreator) Create(ctx context.Context, payload booking.InsertBooking) (booking.Booking, error) {
	return m.create(ctx, payload)
}

var _ dialogue.BookingCreator = (*mockCreator)(nil)

// newOfflineEngine builds an engine with no model, no weather upstream and a
// real in-memory store: the fully deterministic configuration.
func newOfflineEngine() (*dialogue.Engine, *store.Bookings) {
	bookings := store.NewBookings(nil, nil)
	engine := dialogue.New(
		nlu.NewAdapter(nil, nil),
		weather.NewResolver(nil, nil),
		bookings,
		nil,
	)
	return engine, bookings
}

func TestHandleTurn_GreetingAdvancesToCollectName(t *testing.T) {
	engine, _ := newOfflineEngine()

	turn, err := engine.HandleTurn(context.Background(), "hello", booking.NewContext())
	require.NoError(t, err)

	assert.Equal(t, booking.StepCollectName, turn.Context.Step)
	assert.NotEmpty(t, turn.Response)
	assert.False(t, turn.BookingComplete)
}

func TestHandleTurn_FetchesWeatherWhenLocationAndDateKnown(t *testing.T) {
	engine, _ := newOfflineEngine()

	ctx := booking.NewContext()
	ctx.Location = "London"
	ctx.BookingDate = "2030-01-01"
	ctx.Step = booking.StepFetchWeather

	turn, err := engine.HandleTurn(context.Background(), "whatever the user said", ctx)
	require.NoError(t, err)

	require.NotNil(t, turn.Context.WeatherInfo)
	assert.Equal(t, booking.StepSuggestSeating, turn.Context.Step)
	assert.NotEmpty(t, turn.Context.SeatingPreference)
	assert.Contains(t, turn.Response, "seating")
	// Offline weather is a pure function of the date.
	assert.Equal(t, weather.Synthetic("2030-01-01"), *turn.Context.WeatherInfo)
}

func TestHandleTurn_WeatherIsFetchedEagerlyAfterNLUTurn(t *testing.T) {
	// Model turn completes the location+date pair; the same turn must
	// attach weather and append its rationale to the model response.
	reply := `{"response":"London, lovely!","extractedData":{"location":"London"},"nextStep":"fetch_weather","isConfirmed":false}`
	engine := dialogue.New(
		nlu.NewAdapter(&mockCompleter{reply: reply}, nil),
		weather.NewResolver(nil, nil),
		store.NewBookings(nil, nil),
		nil,
	)

	ctx := booking.NewContext()
	ctx.BookingDate = "2030-01-01"
	ctx.Step = booking.StepCollectLocation

	turn, err := engine.HandleTurn(context.Background(), "London please", ctx)
	require.NoError(t, err)

	require.NotNil(t, turn.Context.WeatherInfo)
	assert.Equal(t, booking.StepSuggestSeating, turn.Context.Step)
	assert.Contains(t, turn.Response, "London, lovely!")
	assert.Contains(t, turn.Response, "seating")
}

type mockCompleter struct{ reply string }

func (m *mockCompleter) Complete(context.Context, string) (string, error) {
	return m.reply, nil
}

func TestHandleTurn_SeatingKeywords(t *testing.T) {
	tests := []struct {
		message string
		prior   booking.Seating
		want    booking.Seating
	}{
		{"the patio sounds nice", booking.SeatingIndoor, booking.SeatingOutdoor},
		{"outside please", booking.SeatingNoPreference, booking.SeatingOutdoor},
		{"inside, it might get cold", booking.SeatingOutdoor, booking.SeatingIndoor},
		{"sure, sounds good", booking.SeatingOutdoor, booking.SeatingOutdoor},
		{"yes", "", booking.SeatingIndoor},
		{"hmm whatever", booking.SeatingOutdoor, booking.SeatingOutdoor},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			engine, _ := newOfflineEngine()

			ctx := booking.NewContext()
			ctx.Step = booking.StepSuggestSeating
			ctx.SeatingPreference = tt.prior
			ctx.WeatherInfo = &booking.WeatherSummary{Condition: "Clear", Temperature: 20}

			turn, err := engine.HandleTurn(context.Background(), tt.message, ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.want, turn.Context.SeatingPreference)
			assert.Equal(t, booking.StepSpecialRequests, turn.Context.Step)
		})
	}
}

func TestHandleTurn_DecliningSpecialRequestsLeavesThemUnset(t *testing.T) {
	engine, _ := newOfflineEngine()

	ctx := booking.NewContext()
	ctx.Step = booking.StepSpecialRequests
	ctx.CustomerName = "Ana"
	ctx.WeatherInfo = &booking.WeatherSummary{Condition: "Clear", Temperature: 20}

	turn, err := engine.HandleTurn(context.Background(), "no thanks", ctx)
	require.NoError(t, err)

	assert.Empty(t, turn.Context.SpecialRequests)
	assert.Equal(t, booking.StepConfirmBooking, turn.Context.Step)
	assert.Contains(t, turn.Response, "Ana", "summary lists the known fields")
}

func TestHandleTurn_CapturesSpecialRequests(t *testing.T) {
	engine, _ := newOfflineEngine()

	ctx := booking.NewContext()
	ctx.Step = booking.StepSpecialRequests
	ctx.WeatherInfo = &booking.WeatherSummary{Condition: "Clear", Temperature: 20}

	turn, err := engine.HandleTurn(context.Background(), "it's my wife's birthday", ctx)
	require.NoError(t, err)

	assert.Equal(t, "it's my wife's birthday", turn.Context.SpecialRequests)
	assert.Equal(t, booking.StepConfirmBooking, turn.Context.Step)
}

func TestHandleTurn_ConfirmationCreatesBooking(t *testing.T) {
	engine, bookings := newOfflineEngine()

	ctx := booking.NewContext()
	ctx.Step = booking.StepConfirmBooking
	ctx.CustomerName = "Ana"
	ctx.NumberOfGuests = 2
	ctx.BookingDate = "2030-01-01"
	ctx.BookingTime = "8:00 PM"
	ctx.Location = "London"
	ctx.SeatingPreference = booking.SeatingOutdoor
	ctx.WeatherInfo = &booking.WeatherSummary{Condition: "Clear", Temperature: 20}

	turn, err := engine.HandleTurn(context.Background(), "yes, confirm", ctx)
	require.NoError(t, err)

	assert.True(t, turn.BookingComplete)
	assert.Equal(t, booking.StepBookingComplete, turn.Context.Step)
	require.NotNil(t, turn.Booking)
	assert.Regexp(t, regexp.MustCompile(`^BK-[A-Z0-9]{8}$`), turn.Booking.BookingID)
	assert.Equal(t, booking.StatusConfirmed, turn.Booking.Status)
	assert.Contains(t, turn.Response, turn.Booking.BookingID)
	assert.Contains(t, turn.Response, "Ana")

	stored, ok := bookings.Get(context.Background(), turn.Booking.BookingID)
	require.True(t, ok)
	assert.Equal(t, "Ana", stored.CustomerName)
}

func TestHandleTurn_ConfirmationSubstitutesDefaults(t *testing.T) {
	var captured booking.InsertBooking
	engine := dialogue.New(
		nlu.NewAdapter(nil, nil),
		weather.NewResolver(nil, nil),
		&mockCreator{create: func(_ context.Context, payload booking.InsertBooking) (booking.Booking, error) {
			captured = payload
			return booking.Booking{InsertBooking: payload, BookingID: booking.NewBookingID(), Status: booking.StatusConfirmed}, nil
		}},
		nil,
	)

	ctx := booking.NewContext()
	ctx.Step = booking.StepConfirmBooking

	turn, err := engine.HandleTurn(context.Background(), "looks good", ctx)
	require.NoError(t, err)
	require.True(t, turn.BookingComplete)

	assert.Equal(t, "Guest", captured.CustomerName)
	assert.Equal(t, 2, captured.NumberOfGuests)
	assert.Equal(t, "7:00 PM", captured.BookingTime)
	assert.Equal(t, "Any", captured.CuisinePreference)
	assert.Equal(t, "Unknown", captured.Location)
	assert.Equal(t, booking.SeatingNoPreference, captured.SeatingPreference)
}

func TestHandleTurn_BookingCreationFailureSurfacesPolitely(t *testing.T) {
	engine := dialogue.New(
		nlu.NewAdapter(nil, nil),
		weather.NewResolver(nil, nil),
		&mockCreator{create: func(context.Context, booking.InsertBooking) (booking.Booking, error) {
			return booking.Booking{}, errors.New("store exploded")
		}},
		nil,
	)

	ctx := booking.NewContext()
	ctx.Step = booking.StepConfirmBooking

	turn, err := engine.HandleTurn(context.Background(), "yes", ctx)
	require.Error(t, err)

	assert.Equal(t, booking.StepConfirmBooking, turn.Context.Step, "step does not advance on failure")
	assert.NotContains(t, turn.Response, "store exploded", "raw error never reaches the conversation")
	assert.NotEmpty(t, turn.Response)
}

func TestHandleTurn_NonConfirmationFallsThroughToNLU(t *testing.T) {
	engine, _ := newOfflineEngine()

	ctx := booking.NewContext()
	ctx.Step = booking.StepConfirmBooking
	ctx.CustomerName = "Ana"

	turn, err := engine.HandleTurn(context.Background(), "actually can we change the time", ctx)
	require.NoError(t, err)

	assert.False(t, turn.BookingComplete)
	assert.Nil(t, turn.Booking)
	assert.NotEmpty(t, turn.Response)
}

func TestHandleTurn_UnknownStepIsNormalized(t *testing.T) {
	engine, _ := newOfflineEngine()

	ctx := booking.Context{Step: booking.Step("time_travel")}
	turn, err := engine.HandleTurn(context.Background(), "hello", ctx)
	require.NoError(t, err)

	assert.Equal(t, booking.StepCollectName, turn.Context.Step)
}
