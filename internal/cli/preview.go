package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qmlmodel/instance"
	"github.com/CrimsonAS/qmlmodel/internal/ctxlog"
	"github.com/CrimsonAS/qmlmodel/puppet"
)

// previewSummary is printed when preview ends.
type previewSummary struct {
	Instances int      `json:"instances"`
	Running   bool     `json:"running"`
	Errors    []string `json:"errors,omitempty"`
}

// NewPreviewCmd creates the preview subcommand.
func NewPreviewCmd() *cobra.Command {
	var (
		puppetPath string
		puppetArgs []string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "preview <scene.hcl>",
		Short: "Render a scene with an external renderer process",
		Long: `Load a scene, start the renderer given by --puppet and keep it in sync
until interrupted, until --timeout elapses or until the renderer exits for good.
A renderer that crashes is restarted unless it crashes again right away.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if puppetPath == "" {
				return errors.New("--puppet is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			logger := ctxlog.FromContext(ctx)

			m, err := buildScene(ctx, args[0])
			if err != nil {
				return err
			}

			launcher := &puppet.Launcher{Path: puppetPath, Args: puppetArgs, Logger: logger}
			v := instance.NewNodeInstanceView(
				instance.PuppetStarterFunc(func(replies puppet.ReplyHandler) (instance.CommandSink, error) {
					p, err := launcher.Start(replies)
					if err != nil {
						return nil, err
					}
					return p, nil
				}),
				instance.WithLogger(logger),
			)
			m.SetNodeInstanceView(v)
			if !v.IsRunning() {
				m.SetNodeInstanceView(nil)
				return fmt.Errorf("renderer %s did not start", puppetPath)
			}

			serveErr := launcher.Serve(ctx, v.Posted(), v.HandleCrash)

			summary := previewSummary{Instances: v.InstanceCount(), Running: v.IsRunning()}
			for _, msg := range m.DocumentErrors() {
				summary.Errors = append(summary.Errors, msg.Description)
			}
			m.SetNodeInstanceView(nil)

			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(summary); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			if errors.Is(serveErr, context.Canceled) || errors.Is(serveErr, context.DeadlineExceeded) {
				return nil
			}
			return serveErr
		},
	}
	cmd.Flags().StringVar(&puppetPath, "puppet", "", "Renderer executable")
	cmd.Flags().StringArrayVar(&puppetArgs, "puppet-arg", nil, "Argument passed to the renderer; may be repeated")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop after this long; 0 runs until interrupted")
	return cmd
}
