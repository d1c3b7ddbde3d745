package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/cenkalti/backoff/v4"

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
	outDir := cfg.GetString("out")
	if outDir == "" {
		outDir = "."
	}

	ctx := context.Background()
	order, err := waitForComplete(ctx, client, number)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't get completed order")
	}

	for _, a := range append(order.Transcripts(), order.Captions()...) {
		path := filepath.Join(outDir, a.Name)
		if _, err := client.SaveAttachmentContent(ctx, a.ID, path, rev.MimeText); err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't save attachment")
		}
		goapp.Log.Info().Str("path", path).Msg("saved")
	}
}

// waitForComplete polls the order until it leaves the in-progress state
func waitForComplete(ctx context.Context, client *rev.Client, number string) (*rev.Order, error) {
	return goapp.InvokeWithBackoff(ctx, func() (*rev.Order, bool, error) {
		order, err := client.GetOrder(ctx, number)
		if err != nil {
			return nil, false, err
		}
		goapp.Log.Info().Str("order", number).Str("status", order.Status).Msg("checked")
		if order.Status == rev.OrderStatusCancelled {
			return nil, false, fmt.Errorf("order '%s' is cancelled", number)
		}
		if order.Status != rev.OrderStatusComplete {
			return nil, true, fmt.Errorf("order '%s' is not complete", number)
		}
		return order, false, nil
	}, newPollBackoff())
}

func newPollBackoff() backoff.BackOff {
	res := backoff.NewExponentialBackOff()
	res.MaxInterval = time.Second * 30
	res.MaxElapsedTime = time.Hour * 4
	return res
}
