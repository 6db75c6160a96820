// Package cli implements the qmlmodel commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qmlmodel/internal/ctxlog"
	"github.com/CrimsonAS/qmlmodel/internal/scenefile"
	"github.com/CrimsonAS/qmlmodel/model"
)

// NewRootCmd creates the qmlmodel command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	var logLevel, logFormat string
	root := &cobra.Command{
		Use:           "qmlmodel",
		Short:         "qmlmodel - load QML scene descriptions and drive a renderer",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := ctxlog.New(cmd.ErrOrStderr(), logLevel, logFormat)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(ctxlog.WithLogger(ctx, logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: text or json")

	root.AddCommand(NewDumpCmd())
	root.AddCommand(NewCommandsCmd())
	root.AddCommand(NewPreviewCmd())
	return root
}

// buildScene loads the scene file at path into a new model.
func buildScene(ctx context.Context, path string) (*model.Model, error) {
	scene, err := scenefile.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := scene.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	return m, nil
}

// editor is the view command line edits are made through.
type editor struct {
	model.ViewBase
}

func newEditor(m *model.Model) *editor {
	e := &editor{}
	e.SetDisplayName("qmlmodel")
	m.AttachView(e)
	return e
}

func (*editor) Notify(model.Notification) error { return nil }
