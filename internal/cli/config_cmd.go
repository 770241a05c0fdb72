// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// config_cmd.go - Configuration management command.
//
// Command: config [show|get|set|path|reset]

package cli

import (
	"fmt"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// RunConfig handles the config command and its subcommands.
func RunConfig(args Args) error {
	p := args.Parser

	switch p.Subcommand() {
	case "", "show":
		return configShow()
	case "get":
		return configGet(p.Positional(1))
	case "set":
		return configSet(p.Positional(1), p.Positional(2))
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "reset":
		return configReset(p.BoolFlag("confirm"))
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, get, set, path, reset)", p.Subcommand())
	}
}

func configShow() error {
	cfg := config.Global()
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%-28s %s\n", key, value)
	}
	return nil
}

func configGet(key string) error {
	if key == "" {
		return fmt.Errorf("usage: astroscope config get <key>")
	}
	value, err := config.Global().Get(key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: astroscope config set <key> <value>")
	}

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

func configReset(confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("config reset replaces your configuration with defaults; re-run with --confirm")
	}

	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}
	config.SetGlobal(cfg)

	fmt.Println(styles.RenderSuccess("configuration reset to defaults"))
	return nil
}
