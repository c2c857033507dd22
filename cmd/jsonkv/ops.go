package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv/server"
)

// Generic command plumbing: every operation calls one JSON-RPC method
// and prints the raw result.

func callAndPrint(cfg *MainConfig, cc *cli.Context, method string, params any) error {
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	var res json.RawMessage
	if err := c.call(cfg.ctx, method, params, &res); err != nil {
		return err
	}
	return cfg.printValue(cc.Out, res)
}

// keyPathCommand builds a subcommand for methods taking a key and an
// optional path (defaulting to the root).
func keyPathCommand(mainCfg *MainConfig, name, synopsis, desc, method string) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("%w: %s requires a key and an optional path", cli.ErrUsage, name)
			}
			path := "$"
			if len(args) == 2 {
				path = args[1]
			}
			return callAndPrint(mainCfg, cc, method, &server.KeyPathParams{Key: args[0], Path: path})
		})
}

// valueCommand builds a subcommand for methods taking key, path, and a
// JSON value.
func valueCommand(mainCfg *MainConfig, name, synopsis, desc, method string) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) != 3 {
				return fmt.Errorf("%w: %s requires key, path, and value", cli.ErrUsage, name)
			}
			return callAndPrint(mainCfg, cc, method, &server.ValueParams{
				Key:   args[0],
				Path:  args[1],
				Value: args[2],
			})
		})
}

func ArrAppendCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, "arrappend").
		WithSynopsis("arrappend <key> <path> <json...>").
		WithDescription("append values to arrays at a path").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) < 3 {
				return fmt.Errorf("%w: arrappend requires key, path, and values", cli.ErrUsage)
			}
			return callAndPrint(mainCfg, cc, server.MethodArrAppend, &server.ArrValuesParams{
				Key:    args[0],
				Path:   args[1],
				Values: args[2:],
			})
		})
}

func ArrInsertCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, "arrinsert").
		WithSynopsis("arrinsert <key> <path> <index> <json...>").
		WithDescription("insert values before an array index").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) < 4 {
				return fmt.Errorf("%w: arrinsert requires key, path, index, and values", cli.ErrUsage)
			}
			index, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad index %q", cli.ErrUsage, args[2])
			}
			return callAndPrint(mainCfg, cc, server.MethodArrInsert, &server.ArrInsertParams{
				Key:    args[0],
				Path:   args[1],
				Index:  index,
				Values: args[3:],
			})
		})
}

func ArrPopCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ArrConfig{MainConfig: mainCfg, Index: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cmd, "arrpop").
		WithSynopsis("arrpop [-i index] <key> <path>").
		WithDescription("pop an element from arrays at a path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Cmd.Parse(cc, args)
			if err != nil {
				cfg.Cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) != 2 {
				return fmt.Errorf("%w: arrpop requires key and path", cli.ErrUsage)
			}
			index := int64(cfg.Index)
			return callAndPrint(mainCfg, cc, server.MethodArrPop, &server.ArrPopParams{
				Key:   args[0],
				Path:  args[1],
				Index: &index,
			})
		})
}

func ArrTrimCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, "arrtrim").
		WithSynopsis("arrtrim <key> <path> <start> <stop>").
		WithDescription("trim arrays at a path to an inclusive range").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) != 4 {
				return fmt.Errorf("%w: arrtrim requires key, path, start, and stop", cli.ErrUsage)
			}
			start, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad start %q", cli.ErrUsage, args[2])
			}
			stop, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad stop %q", cli.ErrUsage, args[3])
			}
			return callAndPrint(mainCfg, cc, server.MethodArrTrim, &server.ArrTrimParams{
				Key:   args[0],
				Path:  args[1],
				Start: start,
				Stop:  stop,
			})
		})
}

func ArrIndexCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, "arrindex").
		WithSynopsis("arrindex <key> <path> <json>").
		WithDescription("find a value in arrays at a path").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) != 3 {
				return fmt.Errorf("%w: arrindex requires key, path, and value", cli.ErrUsage)
			}
			return callAndPrint(mainCfg, cc, server.MethodArrIndex, &server.ArrIndexParams{
				Key:   args[0],
				Path:  args[1],
				Value: args[2],
			})
		})
}

// LenCommand reports string, array, or object lengths depending on the
// method selected by its first argument.
func LenCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	methods := map[string]string{
		"str": server.MethodStrLen,
		"arr": server.MethodArrLen,
		"obj": server.MethodObjLen,
	}
	return cli.NewCommandAt(&cmd, "len").
		WithSynopsis("len <str|arr|obj> <key> [path]").
		WithDescription("report lengths at a path").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				cmd.Usage(cc, err)
				return cli.ExitCodeErr(1)
			}
			if len(args) < 2 || len(args) > 3 {
				return fmt.Errorf("%w: len requires a kind, a key, and an optional path", cli.ErrUsage)
			}
			method, ok := methods[args[0]]
			if !ok {
				return fmt.Errorf("%w: unknown kind %q", cli.ErrUsage, args[0])
			}
			path := "$"
			if len(args) == 3 {
				path = args[2]
			}
			return callAndPrint(mainCfg, cc, method, &server.KeyPathParams{Key: args[1], Path: path})
		})
}
