package nlu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/nlu"
)

// ---- mock Completer --------------------------------------------------------

type mockCompleter struct {
	complete func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return m.complete(ctx, prompt)
}

var _ nlu.Completer = (*mockCompleter)(nil)

func TestInterpret_MergesModelExtraction(t *testing.T) {
	adapter := nlu.NewAdapter(&mockCompleter{
		complete: func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "collect_guests")
			return `The model says: {"response":"Great, and what date?","extractedData":{"numberOfGuests":30},"nextStep":"collect_date","isConfirmed":false}`, nil
		},
	}, nil)

	ctx := booking.NewContext()
	ctx.Step = booking.StepCollectGuests

	res := adapter.Interpret(context.Background(), "thirty of us", ctx)

	assert.Equal(t, "Great, and what date?", res.Response)
	assert.Equal(t, 20, res.Context.NumberOfGuests, "model extraction is clamped")
	assert.Equal(t, booking.StepCollectDate, res.Context.Step)
	assert.False(t, res.BookingComplete)
}

func TestInterpret_ServiceErrorFallsBack(t *testing.T) {
	adapter := nlu.NewAdapter(&mockCompleter{
		complete: func(context.Context, string) (string, error) {
			return "", errors.New("rate limited")
		},
	}, nil)

	res := adapter.Interpret(context.Background(), "hello", booking.NewContext())

	assert.Equal(t, booking.StepCollectName, res.Context.Step)
	assert.Contains(t, res.Response, "name")
}

func TestInterpret_UnparsableReplyFallsBack(t *testing.T) {
	adapter := nlu.NewAdapter(&mockCompleter{
		complete: func(context.Context, string) (string, error) {
			return "I am terribly sorry but I will not produce JSON today.", nil
		},
	}, nil)

	ctx := booking.NewContext()
	ctx.Step = booking.StepCollectGuests

	res := adapter.Interpret(context.Background(), "4 please, around eight", ctx)

	assert.Equal(t, 4, res.Context.NumberOfGuests)
	assert.Equal(t, booking.StepCollectDate, res.Context.Step)
}

func TestInterpret_NilCompleterUsesFallback(t *testing.T) {
	adapter := nlu.NewAdapter(nil, nil)

	res := adapter.Interpret(context.Background(), "good evening", booking.NewContext())
	assert.Equal(t, booking.StepCollectName, res.Context.Step)
}

func TestInterpret_CompleteRequiresConfirmedAndTerminalStep(t *testing.T) {
	reply := `{"response":"Done!","extractedData":null,"nextStep":"booking_complete","isConfirmed":true}`
	adapter := nlu.NewAdapter(&mockCompleter{
		complete: func(context.Context, string) (string, error) { return reply, nil },
	}, nil)

	ctx := booking.NewContext()
	ctx.Step = booking.StepConfirmBooking

	res := adapter.Interpret(context.Background(), "yes", ctx)
	assert.True(t, res.BookingComplete)

	// Confirmed but not terminal: not complete.
	reply = `{"response":"Almost!","extractedData":null,"nextStep":"confirm_booking","isConfirmed":true}`
	res = adapter.Interpret(context.Background(), "yes", ctx)
	assert.False(t, res.BookingComplete)
}
