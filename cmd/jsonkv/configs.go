package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

const defaultAddr = "127.0.0.1:7464"

type MainConfig struct {
	Addr  string `cli:"name=addr desc='server address (host:port)'"`
	Color bool   `cli:"name=color desc='force colored output'"`

	ctx  context.Context
	Main *cli.Command
}

type GetConfig struct {
	*MainConfig
	YAML bool `cli:"name=y aliases=yaml desc='output YAML'"`
	Get  *cli.Command
}

type SetConfig struct {
	*MainConfig
	NX  bool `cli:"name=nx desc='only set if the path does not exist'"`
	XX  bool `cli:"name=xx desc='only set if the path exists'"`
	Set *cli.Command
}

type ArrConfig struct {
	*MainConfig
	Index int `cli:"name=i aliases=index desc='array index'"`
	Cmd   *cli.Command
}

type WatchConfig struct {
	*MainConfig
	Watch *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Path string `cli:"name=p aliases=path desc='path to compare (default $)'"`
	Diff *cli.Command
}

func (cfg *MainConfig) serverAddr() string {
	if cfg.Addr != "" {
		return cfg.Addr
	}
	return defaultAddr
}

func (cfg *MainConfig) dial() (*client, error) {
	return dialClient(cfg.ctx, cfg.serverAddr())
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// printValue writes a JSON result, "(nil)" for null, dimmed when the
// output is a terminal.
func (cfg *MainConfig) printValue(w io.Writer, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		if cfg.useColor(w) {
			_, err := color.New(color.Faint).Fprintln(w, "(nil)")
			return err
		}
		_, err := fmt.Fprintln(w, "(nil)")
		return err
	}
	if cfg.useColor(w) {
		_, err := color.New(color.FgCyan).Fprintln(w, string(raw))
		return err
	}
	_, err := fmt.Fprintln(w, string(raw))
	return err
}
