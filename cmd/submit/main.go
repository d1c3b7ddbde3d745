package main

import (
	"context"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/google/uuid"

	"github.com/revspeech/rev-go/pkg/rev"
)

func main() {
	goapp.StartWithDefault()

	cfg := goapp.Config
	client, err := rev.NewClient(cfg.GetString("key.client"), cfg.GetString("key.user"), cfg.GetString("host"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init client")
	}

	ctx := context.Background()
	input, err := prepareInput(ctx, client, cfg.GetString("file"), cfg.GetString("link"), cfg.GetString("contentType"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't prepare input")
	}

	orderRequest, err := makeRequest(input, cfg.GetString("type"), cfg.GetBool("verbatim"), cfg.GetBool("timestamps"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't make order request")
	}
	orderRequest.ClientRef = cfg.GetString("clientRef")
	if orderRequest.ClientRef == "" {
		orderRequest.ClientRef = uuid.New().String()
	}

	number, err := client.SubmitOrder(ctx, orderRequest)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't submit order")
	}
	goapp.Log.Info().Str("clientRef", orderRequest.ClientRef).Msg("order submitted")
	fmt.Println(number)
}

func prepareInput(ctx context.Context, client *rev.Client, file, link, contentType string) (rev.Input, error) {
	if file != "" {
		uri, err := client.UploadInput(ctx, file, contentType)
		if err != nil {
			return rev.Input{}, fmt.Errorf("can't upload '%s': %w", file, err)
		}
		goapp.Log.Info().Str("uri", uri).Msg("uploaded input")
		return rev.Input{URI: uri}, nil
	}
	if link != "" {
		return rev.Input{ExternalLink: link}, nil
	}
	return rev.Input{}, fmt.Errorf("no file nor link")
}

func makeRequest(input rev.Input, orderType string, verbatim, timestamps bool) (*rev.OrderRequest, error) {
	switch orderType {
	case "caption":
		opts, err := rev.NewCaptionOptions([]rev.Input{input})
		if err != nil {
			return nil, err
		}
		return rev.NewOrderRequestWithCaption(opts), nil
	case "", "transcription":
		opts, err := rev.NewTranscriptionOptions([]rev.Input{input})
		if err != nil {
			return nil, err
		}
		opts.Verbatim = rev.Bool(verbatim)
		opts.Timestamps = rev.Bool(timestamps)
		return rev.NewOrderRequestWithTranscription(opts), nil
	}
	return nil, fmt.Errorf("unknown order type '%s'", orderType)
}
