package main

import (
	"context"
	"fmt"

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

	ctx := context.Background()
	clientRef := cfg.GetString("clientRef")

	var orders []rev.Order
	if clientRef != "" {
		page, err := client.GetOrdersByClientRef(ctx, clientRef, cfg.GetInt("page"))
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't get orders")
		}
		orders = page.Orders
	} else {
		orders, err = client.GetAllOrders(ctx)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't get orders")
		}
	}

	goapp.Log.Info().Int("count", len(orders)).Msg("loaded orders")
	for _, o := range orders {
		fmt.Printf("%s\t%s\t%.2f\t%s\n", o.OrderNumber, o.Status, o.Price, o.ClientRef)
	}
}
