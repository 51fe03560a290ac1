// Package config defines the top-level CLI grammar.
package config

import (
	"hogpd/internal/cmd"
)

// LogOptions are shared by every command.
type LogOptions struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"HOGPD_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"HOGPD_LOG_FILE"`
	RawFile string `help:"Write raw report hex dumps to this file" env:"HOGPD_LOG_RAW_FILE"`
}

// CLI is the root command grammar parsed by kong.
type CLI struct {
	Log    LogOptions `embed:"" prefix:"log."`
	Config string     `help:"Path to a configuration file" env:"HOGPD_CONFIG"`

	Serve     cmd.Serve         `cmd:"" default:"withargs" help:"Run the BLE HID peripheral"`
	Keys      cmd.Keys          `cmd:"" help:"List supported key names and HID usage codes"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
