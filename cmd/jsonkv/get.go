package main

import (
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv/server"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a key", cli.ErrUsage)
	}
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	params := &server.GetParams{Key: args[0], Paths: args[1:]}
	if cfg.YAML {
		params.Format = "yaml"
	}
	var res server.GetResult
	if err := c.call(cfg.ctx, server.MethodGet, params, &res); err != nil {
		return err
	}
	if cfg.YAML && string(res.Value) != "null" {
		var text string
		if err := json.Unmarshal(res.Value, &text); err != nil {
			return err
		}
		_, err := fmt.Fprint(cc.Out, text)
		return err
	}
	return cfg.printValue(cc.Out, res.Value)
}

func mget(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: mget requires a path and at least one key", cli.ErrUsage)
	}
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	var res server.MGetResult
	params := &server.MGetParams{Path: args[0], Keys: args[1:]}
	if err := c.call(cfg.ctx, server.MethodMGet, params, &res); err != nil {
		return err
	}
	for _, v := range res.Values {
		if err := cfg.printValue(cc.Out, v); err != nil {
			return err
		}
	}
	return nil
}
