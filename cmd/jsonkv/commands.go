package main

import (
	"context"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jsonkv/server"
)

func MainCommand(ctx context.Context) *cli.Command {
	cfg := &MainConfig{ctx: ctx}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "jsonkv").
		WithSynopsis("jsonkv [-addr host:port] command [opts] args").
		WithDescription("jsonkv is a client for the jsonkvd JSON document store.").
		WithOpts(opts...).
		WithSubs(
			GetCommand(cfg),
			MGetCommand(cfg),
			SetCommand(cfg),
			MergeCommand(cfg),
			DelCommand(cfg),
			ClearCommand(cfg),
			ToggleCommand(cfg),
			TypeCommand(cfg),
			StrAppendCommand(cfg),
			ArrAppendCommand(cfg),
			ArrInsertCommand(cfg),
			ArrPopCommand(cfg),
			ArrTrimCommand(cfg),
			ArrIndexCommand(cfg),
			ObjKeysCommand(cfg),
			LenCommand(cfg),
			NumCommand(cfg, "numincrby", "add a number at each numeric match"),
			NumCommand(cfg, "nummultby", "multiply each numeric match"),
			NumCommand(cfg, "numpowby", "raise each numeric match to a power"),
			WatchCommand(cfg),
			DiffCommand(cfg))
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-y] <key> [paths...]").
		WithDescription("get a document or parts of it").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func MGetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "mget").
		WithSynopsis("mget <path> <keys...>").
		WithDescription("get one path from several keys").
		WithRun(func(cc *cli.Context, args []string) error {
			return mget(cfg, cc, args)
		})
}

func SetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Set, "set").
		WithAliases("s").
		WithSynopsis("set [-nx|-xx] <key> <path> <json>").
		WithDescription("set a JSON value at a path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return set(cfg, cc, args)
		})
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	return valueCommand(mainCfg, "merge", "merge <key> <path> <json>",
		"apply an RFC 7386 merge patch at a path", server.MethodMerge)
}

func DelCommand(mainCfg *MainConfig) *cli.Command {
	return keyPathCommand(mainCfg, "del", "del <key> [path]",
		"delete a document or parts of it", server.MethodDel)
}

func ClearCommand(mainCfg *MainConfig) *cli.Command {
	return keyPathCommand(mainCfg, "clear", "clear <key> [path]",
		"empty containers and zero numbers at a path", server.MethodClear)
}

func ToggleCommand(mainCfg *MainConfig) *cli.Command {
	return keyPathCommand(mainCfg, "toggle", "toggle <key> <path>",
		"flip booleans at a path", server.MethodToggle)
}

func TypeCommand(mainCfg *MainConfig) *cli.Command {
	return keyPathCommand(mainCfg, "type", "type <key> [path]",
		"report the type at a path", server.MethodType)
}

func StrAppendCommand(mainCfg *MainConfig) *cli.Command {
	return valueCommand(mainCfg, "strappend", "strappend <key> <path> <json-string>",
		"append to strings at a path", server.MethodStrAppend)
}

func ObjKeysCommand(mainCfg *MainConfig) *cli.Command {
	return keyPathCommand(mainCfg, "objkeys", "objkeys <key> [path]",
		"list object member names at a path", server.MethodObjKeys)
}

func NumCommand(mainCfg *MainConfig, name, desc string) *cli.Command {
	return valueCommand(mainCfg, name, name+" <key> <path> <number>", desc, "json."+name)
}
