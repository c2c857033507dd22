package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv/server"
)

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WatchConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithAliases("w").
		WithSynopsis("watch [patterns...]").
		WithDescription("subscribe to change notifications and print them as they arrive").
		WithRun(func(cc *cli.Context, args []string) error {
			return watch(cfg, cc, args)
		})
}

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	var res server.PSubscribeResult
	params := &server.PSubscribeParams{Patterns: patterns}
	if err := c.call(cfg.ctx, server.MethodPSubscribe, params, &res); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "subscribed %s\n", res.SubscriberID)

	channelColor := color.New(color.FgYellow)
	for {
		select {
		case <-cfg.ctx.Done():
			return nil
		case <-c.conn.Done():
			return nil
		case msg := <-c.pmessages:
			if cfg.useColor(cc.Out) {
				channelColor.Fprint(cc.Out, msg.Channel)
				fmt.Fprintf(cc.Out, " %s\n", msg.Payload)
			} else {
				fmt.Fprintf(cc.Out, "%s %s\n", msg.Channel, msg.Payload)
			}
		}
	}
}
