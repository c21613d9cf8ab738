// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blitznote.com/src/fileorname"
)

// app is the state shared by all commands of one run.
type app struct {
	configPath string
	cfg        *Config
	names      *namePolicy
	log        *zap.Logger
	fs         afero.Fs
}

func newRootCmd() *cobra.Command {
	return newApp(afero.NewOsFs()).rootCmd()
}

func newApp(fs afero.Fs) *app {
	return &app{fs: fs}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fon",
		Short: "Read and write files, replacing targets only once a command has succeeded",
		Long: `fon moves data between files.

Targets are written through a staged file next to them,
which replaces the target only after the command has succeeded.
On failure the target is left as it was, and the staged file is kept for inspection.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fon/config.yaml)")
	root.PersistentFlags().String("temp-dir", "", "directory for staged files (default: next to the target)")
	root.PersistentFlags().BoolP("verbose", "v", false, "trace opened and closed files")

	root.AddCommand(
		newCatCmd(a),
		newHeadCmd(a),
		newWriteCmd(a),
		newCpCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.names, err = newNamePolicy(cfg.Names); err != nil {
		return err
	}

	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	zcfg.Encoding = cfg.Logging.Encoding
	if zcfg.Encoding == "console" {
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	a.log, err = zcfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// options are common to every Spec the commands build.
func (a *app) options(modes ...fileorname.Option) []fileorname.Option {
	return append([]fileorname.Option{
		fileorname.WithFs(a.fs),
		fileorname.WithTempDir(a.cfg.TempDir),
		fileorname.WithLogger(a.log.Named("fileorname")),
	}, modes...)
}

// checkTarget enforces the configured name policy on files about to be written.
func (a *app) checkTarget(path string) error {
	if !a.cfg.Names.Check {
		return nil
	}
	return a.names.check(path)
}

// sandbox limits this process to 'paths' (path -> permissions as in unveil(2)),
// plus the directory for staged files if one has been configured.
func (a *app) sandbox(paths map[string]string) error {
	if a.cfg.TempDir != "" {
		paths[a.cfg.TempDir] = "rwc"
	}
	for path, perm := range paths {
		if err := unveil(path, perm); err != nil {
			return errors.Wrapf(err, "unveil %s", path)
		}
	}
	return unveilBlock()
}
