// Command gatewayctl drives a running Creator Hub gateway from the shell.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ruteri/creator-hub-gateway/api"
	"github.com/ruteri/creator-hub-gateway/api/gateway"
	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/urfave/cli/v2"
)

var gatewayURLFlag = &cli.StringFlag{
	Name:    "gateway-url",
	Value:   "http://127.0.0.1:8000",
	EnvVars: []string{"GATEWAY_URL"},
	Usage:   "base URL of the gateway",
}

var timeoutFlag = &cli.DurationFlag{
	Name:  "timeout",
	Value: 3 * time.Minute,
	Usage: "request timeout",
}

func main() {
	app := &cli.App{
		Name:  "gatewayctl",
		Usage: "Command-line client for the Creator Hub gateway",
		Flags: []cli.Flag{gatewayURLFlag, timeoutFlag},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload a file to IPFS",
				ArgsUsage: "<path>",
				Action: func(cCtx *cli.Context) error {
					path := cCtx.Args().First()
					if path == "" {
						return cli.Exit("file path is required", 1)
					}
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()

					res, err := newClient(cCtx).Upload(cCtx.Context, filepath.Base(path), f)
					return printResult(res, err)
				},
			},
			{
				Name:  "register-creator",
				Usage: "Register a creator profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "creator", Required: true},
					&cli.StringFlag{Name: "profile-uri", Required: true},
					&cli.Int64Flag{Name: "price", Required: true, Usage: "monthly subscription price in stroops"},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).RegisterCreator(cCtx.Context, creatorRequest(cCtx))
					return printResult(res, err)
				},
			},
			{
				Name:  "update-creator",
				Usage: "Update a creator profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "creator", Required: true},
					&cli.StringFlag{Name: "profile-uri", Required: true},
					&cli.Int64Flag{Name: "price", Required: true, Usage: "monthly subscription price in stroops"},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).UpdateCreator(cCtx.Context, creatorRequest(cCtx))
					return printResult(res, err)
				},
			},
			{
				Name:      "get-creator",
				Usage:     "Show a creator profile",
				ArgsUsage: "<address>",
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).GetCreator(cCtx.Context, cCtx.Args().First())
					return printResult(res, err)
				},
			},
			{
				Name:  "mint",
				Usage: "Mint a content item and store its AES key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "creator", Required: true},
					&cli.StringFlag{Name: "cid", Required: true},
					&cli.Int64Flag{Name: "price", Required: true},
					&cli.BoolFlag{Name: "for-subscribers", Value: true},
					&cli.StringFlag{Name: "aes-key", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					req := api.NewMintContentRequest()
					req.CreatorAddress = cCtx.String("creator")
					req.IPFSCID = cCtx.String("cid")
					req.Price = cCtx.Int64("price")
					req.IsForSubscribers = cCtx.Bool("for-subscribers")
					req.AESKey = cCtx.String("aes-key")

					res, err := newClient(cCtx).MintContent(cCtx.Context, req)
					return printResult(res, err)
				},
			},
			{
				Name:  "get-content",
				Usage: "Show a content item",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "content-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).GetContent(cCtx.Context, interfaces.ContentID(cCtx.Uint64("content-id")))
					return printResult(res, err)
				},
			},
			{
				Name:  "subscribe",
				Usage: "Subscribe to a creator",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subscriber", Required: true},
					&cli.StringFlag{Name: "creator", Required: true},
					&cli.Int64Flag{Name: "months", Value: 1},
				},
				Action: func(cCtx *cli.Context) error {
					req := api.NewSubscribeRequest()
					req.SubscriberAddress = cCtx.String("subscriber")
					req.CreatorAddress = cCtx.String("creator")
					req.Months = cCtx.Int64("months")

					res, err := newClient(cCtx).Subscribe(cCtx.Context, req)
					return printResult(res, err)
				},
			},
			{
				Name:  "is-subscribed",
				Usage: "Check a subscription",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true},
					&cli.StringFlag{Name: "creator", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).IsSubscribed(cCtx.Context, api.SubscriptionCheckRequest{
						UserAddress:    cCtx.String("user"),
						CreatorAddress: cCtx.String("creator"),
					})
					return printResult(res, err)
				},
			},
			{
				Name:  "buy",
				Usage: "Buy a content item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "buyer", Required: true},
					&cli.Uint64Flag{Name: "content-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).BuyContent(cCtx.Context, api.BuyContentRequest{
						BuyerAddress: cCtx.String("buyer"),
						ContentID:    interfaces.ContentID(cCtx.Uint64("content-id")),
					})
					return printResult(res, err)
				},
			},
			{
				Name:  "check-access",
				Usage: "Check whether a wallet may view a content item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true},
					&cli.Uint64Flag{Name: "content-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).CheckAccess(cCtx.Context, api.AccessCheckRequest{
						UserAddress: cCtx.String("user"),
						ContentID:   interfaces.ContentID(cCtx.Uint64("content-id")),
					})
					return printResult(res, err)
				},
			},
			{
				Name:  "content-key",
				Usage: "Fetch the AES key of a content item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "wallet", Required: true},
					&cli.Uint64Flag{Name: "content-id", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).ContentKey(cCtx.Context, api.ContentKeyRequest{
						WalletAddress: cCtx.String("wallet"),
						ContentID:     interfaces.ContentID(cCtx.Uint64("content-id")),
					})
					return printResult(res, err)
				},
			},
			{
				Name:  "db-health",
				Usage: "Check the gateway's secret store",
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).DBHealth(cCtx.Context)
					return printResult(res, err)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) *gateway.Client {
	return gateway.NewClient(cCtx.String(gatewayURLFlag.Name), &http.Client{
		Timeout: cCtx.Duration(timeoutFlag.Name),
	})
}

func creatorRequest(cCtx *cli.Context) api.RegisterCreatorRequest {
	return api.RegisterCreatorRequest{
		CreatorAddress:    cCtx.String("creator"),
		ProfileURI:        cCtx.String("profile-uri"),
		SubscriptionPrice: cCtx.Int64("price"),
	}
}

func printResult(v any, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
