package nlu

import (
	"context"

	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// Result is one interpreted conversational turn.
type Result struct {
	Response        string
	Context         booking.Context
	BookingComplete bool
}

// Adapter sends conversation state to the completion service under a strict
// response-shape contract and degrades to the deterministic fallback parser
// on any failure. Model-side errors never reach the conversation output.
type Adapter struct {
	completer Completer
	log       *zap.Logger
}

// NewAdapter wraps completer, which may be nil when no model is configured;
// every turn then takes the fallback path.
func NewAdapter(completer Completer, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{completer: completer, log: log}
}

// Interpret runs one turn through the model, merges whatever it extracted
// into the context, and flags completion only when the model confirmed AND
// the merged step is terminal.
func (a *Adapter) Interpret(ctx context.Context, message string, bctx booking.Context) Result {
	if a.completer == nil {
		return Fallback(message, bctx)
	}

	raw, err := a.completer.Complete(ctx, BuildPrompt(message, bctx))
	if err != nil {
		a.log.Warn("completion service failed, using fallback parser", zap.Error(err))
		return Fallback(message, bctx)
	}

	reply, err := ParseReply(raw)
	if err != nil {
		a.log.Warn("unparsable model reply, using fallback parser", zap.Error(err))
		return Fallback(message, bctx)
	}

	merged := booking.Merge(bctx, reply.ExtractedData, booking.Step(reply.NextStep))
	return Result{
		Response:        reply.Response,
		Context:         merged,
		BookingComplete: reply.IsConfirmed && merged.Step == booking.StepBookingComplete,
	}
}
