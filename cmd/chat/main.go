// Command chat is a local REPL against the dialogue engine: no server, no
// Redis, and (unless API keys are exported) no network at all.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/dialogue"
	"github.com/tabletalk-ai/tabletalk/nlu"
	"github.com/tabletalk-ai/tabletalk/store"
	"github.com/tabletalk-ai/tabletalk/weather"
)

func main() {
	_ = godotenv.Load()
	logger := zap.NewNop()

	var completer nlu.Completer
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gemini, err := nlu.NewGemini(context.Background(), key)
		if err != nil {
			log.Printf("Gemini unavailable (%v), using rule-based parsing", err)
		} else {
			completer = gemini
		}
	}

	var source weather.Source
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		source = weather.NewOpenWeather(key)
	}

	engine := dialogue.New(
		nlu.NewAdapter(completer, logger),
		weather.NewResolver(source, logger),
		store.NewBookings(nil, logger),
		logger,
	)

	fmt.Println("TableTalk reservation assistant. Type 'quit' to exit.")
	fmt.Println()

	bctx := booking.NewContext()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		turn, err := engine.HandleTurn(context.Background(), line, bctx)
		if err != nil {
			fmt.Printf("assistant> %s\n(error: %v)\n\n", turn.Response, err)
			continue
		}
		bctx = turn.Context

		fmt.Printf("assistant> %s\n\n", turn.Response)
		if turn.BookingComplete {
			fmt.Println("Booking complete. Goodbye!")
			break
		}
	}
}
