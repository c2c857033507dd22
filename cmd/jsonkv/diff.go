package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/jsonkv/server"
)

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Path: "$"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-p path] <key1> <key2>").
		WithDescription("diff the JSON at a path between two keys").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two keys", cli.ErrUsage)
	}
	c, err := cfg.dial()
	if err != nil {
		return err
	}
	defer c.close()
	a, err := fetch(cfg, c, args[0])
	if err != nil {
		return err
	}
	b, err := fetch(cfg, c, args[1])
	if err != nil {
		return err
	}
	if a == b {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	printDiffs(cfg.MainConfig, cc.Out, diffs)
	return cli.ExitCodeErr(1)
}

func fetch(cfg *DiffConfig, c *client, key string) (string, error) {
	var res server.GetResult
	params := &server.GetParams{Key: key, Paths: []string{cfg.Path}}
	if err := c.call(cfg.ctx, server.MethodGet, params, &res); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Value, "", "  "); err != nil {
		return string(res.Value), nil
	}
	return buf.String(), nil
}

func printDiffs(cfg *MainConfig, w io.Writer, diffs []diffmatchpatch.Diff) {
	colored := cfg.useColor(w)
	ins := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			if colored {
				ins.Fprint(w, d.Text)
			} else {
				fmt.Fprintf(w, "{+%s+}", d.Text)
			}
		case diffmatchpatch.DiffDelete:
			if colored {
				del.Fprint(w, d.Text)
			} else {
				fmt.Fprintf(w, "[-%s-]", d.Text)
			}
		default:
			fmt.Fprint(w, d.Text)
		}
	}
	fmt.Fprintln(w)
}
