// gatectl is a small operator CLI for the gateway's REST surface:
//
//	gatectl connect
//	gatectl status
//	gatectl trade -symbol AAPL -action BUY -qty 10 [-type LMT -limit 187.5]
//	gatectl portfolio
//	gatectl summary
//	gatectl disconnect
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	base := os.Getenv("GATEWAY_URL")
	if base == "" {
		base = "http://127.0.0.1:8000"
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	var (
		resp *resty.Response
		err  error
	)
	switch cmd {
	case "connect":
		resp, err = client.R().Post("/connect")
	case "disconnect":
		resp, err = client.R().Post("/disconnect")
	case "status":
		resp, err = client.R().Get("/connection")
	case "portfolio":
		resp, err = client.R().Get("/portfolio")
	case "summary":
		resp, err = client.R().Get("/account/summary")
	case "trade":
		resp, err = trade(client, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gatectl: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(resp.String())
	if resp.StatusCode() >= 400 {
		os.Exit(1)
	}
}

func trade(client *resty.Client, args []string) (*resty.Response, error) {
	fs := flag.NewFlagSet("trade", flag.ExitOnError)
	var (
		symbol    = fs.String("symbol", "", "stock symbol, e.g. AAPL")
		action    = fs.String("action", "BUY", "BUY or SELL")
		qty       = fs.Float64("qty", 0, "number of shares")
		orderType = fs.String("type", "MKT", "MKT or LMT")
		limit     = fs.Float64("limit", 0, "limit price (LMT only)")
		exchange  = fs.String("exchange", "", "exchange (default SMART)")
		currency  = fs.String("currency", "", "currency (default USD)")
	)
	_ = fs.Parse(args)

	body := map[string]any{
		"symbol":    *symbol,
		"action":    *action,
		"quantity":  *qty,
		"orderType": *orderType,
	}
	if *limit > 0 {
		body["limitPrice"] = *limit
	}
	if *exchange != "" {
		body["exchange"] = *exchange
	}
	if *currency != "" {
		body["currency"] = *currency
	}
	return client.R().SetBody(body).Post("/trading/trade")
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gatectl <connect|disconnect|status|trade|portfolio|summary> [flags]")
	fmt.Fprintln(os.Stderr, "env: GATEWAY_URL (default http://127.0.0.1:8000)")
}
