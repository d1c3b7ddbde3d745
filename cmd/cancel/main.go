package main

import (
	"context"
	"errors"

	"github.com/airenas/go-app/pkg/goapp"

	"github.com/revspeech/rev-go/pkg/rev"
)

func main() {
	goapp.StartWithDefault()

	cfg := goapp.Config
	client, err := rev.NewClient(cfg.GetString("key.client"), cfg.GetString("key.user"), cfg.GetString("host"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init client")
	}
	number := cfg.GetString("order")
	if number == "" {
		goapp.Log.Fatal().Msg("no order number")
	}

	err = client.CancelOrder(context.Background(), number)
	if errors.Is(err, rev.ErrForbidden) {
		goapp.Log.Fatal().Err(err).Msg("cancellation not allowed anymore")
	}
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't cancel order")
	}
	goapp.Log.Info().Str("order", number).Msg("cancelled")
}
