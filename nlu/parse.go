package nlu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// ModelReply is the response-shape contract the completion service must
// honor. Anything that does not decode into this shape routes the turn to
// the fallback parser.
type ModelReply struct {
	Response      string             `json:"response"`
	ExtractedData *booking.Extracted `json:"extractedData"`
	NextStep      string             `json:"nextStep"`
	IsConfirmed   bool               `json:"isConfirmed"`
}

// ErrNoJSON is returned when the raw reply contains no JSON object at all.
var ErrNoJSON = errors.New("no JSON object in model reply")

// ParseReply locates the first {...} span in raw and decodes it; the model
// frequently wraps its JSON in prose or code fences. The result is a valid
// reply or an error, never a panic-driven path.
func ParseReply(raw string) (ModelReply, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ModelReply{}, ErrNoJSON
	}

	var reply ModelReply
	if err := sonic.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return ModelReply{}, fmt.Errorf("decode model reply: %w", err)
	}
	if strings.TrimSpace(reply.Response) == "" {
		return ModelReply{}, errors.New("model reply has no response text")
	}
	return reply, nil
}
