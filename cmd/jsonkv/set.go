package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv/server"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: set requires key, path, and value", cli.ErrUsage)
	}
	if cfg.NX && cfg.XX {
		return fmt.Errorf("%w: -nx and -xx are mutually exclusive", cli.ErrUsage)
	}
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	var res server.SetResult
	params := &server.SetParams{
		Key:   args[0],
		Path:  args[1],
		Value: args[2],
		NX:    cfg.NX,
		XX:    cfg.XX,
	}
	if err := c.call(cfg.ctx, server.MethodSet, params, &res); err != nil {
		return err
	}
	if !res.OK {
		fmt.Fprintln(cc.Out, "(nothing set)")
		return nil
	}
	fmt.Fprintln(cc.Out, "OK")
	return nil
}
