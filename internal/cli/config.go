package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"todo-cli/internal/config"

	"github.com/spf13/cobra"
)

type configOutput struct {
	File     string `json:"file" yaml:"file"`
	Backend  string `json:"backend" yaml:"backend"`
	Path     string `json:"path" yaml:"path"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogFile  string `json:"logFile" yaml:"logFile"`
	WebAddr  string `json:"webAddr" yaml:"webAddr"`
}

func (o configOutput) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "file:      %s\nbackend:   %s\npath:      %s\nlog_level: %s\nlog_file:  %s\nweb_addr:  %s\n",
		o.File, o.Backend, o.Path, o.LogLevel, o.LogFile, o.WebAddr)
	return err
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (defaults, config.toml, env, flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := config.Dir()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, configOutput{
				File:     filepath.Join(dir, "config.toml"),
				Backend:  cfg.Backend,
				Path:     cfg.Path,
				LogLevel: cfg.LogLevel,
				LogFile:  cfg.LogFile,
				WebAddr:  cfg.WebAddr,
			})
		},
	}
}
