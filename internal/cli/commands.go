package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qmlmodel/instance"
	"github.com/CrimsonAS/qmlmodel/internal/ctxlog"
	"github.com/CrimsonAS/qmlmodel/model"
	"github.com/CrimsonAS/qmlmodel/puppet"
)

// recordingSink writes every renderer command as one JSON line.
type recordingSink struct {
	enc *json.Encoder
}

func newRecordingSink(w io.Writer) *recordingSink {
	return &recordingSink{enc: json.NewEncoder(w)}
}

func (s *recordingSink) Send(cmd puppet.Command) error {
	return s.enc.Encode(struct {
		Command string         `json:"command"`
		Data    puppet.Command `json:"data"`
	}{cmd.CommandName(), cmd})
}

func (s *recordingSink) Close() error {
	return nil
}

// NewCommandsCmd creates the commands subcommand.
func NewCommandsCmd() *cobra.Command {
	var sets, selects, removes []string
	cmd := &cobra.Command{
		Use:   "commands <scene.hcl>",
		Short: "Print the renderer commands a scene and a list of edits produce",
		Long: `Load a scene, attach a renderer mirror that records instead of rendering,
apply the edits given as flags and print every command as a JSON line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := buildScene(ctx, args[0])
			if err != nil {
				return err
			}
			e := newEditor(m)

			sink := newRecordingSink(cmd.OutOrStdout())
			v := instance.NewNodeInstanceView(
				instance.PuppetStarterFunc(func(puppet.ReplyHandler) (instance.CommandSink, error) {
					return sink, nil
				}),
				instance.WithLogger(ctxlog.FromContext(ctx)),
			)
			m.SetNodeInstanceView(v)
			defer m.SetNodeInstanceView(nil)

			for _, s := range sets {
				if err := applySet(e, s); err != nil {
					return err
				}
			}
			var selected []model.ModelNode
			for _, id := range selects {
				node, err := nodeForID(e, id)
				if err != nil {
					return err
				}
				selected = append(selected, node)
			}
			if len(selected) > 0 {
				e.SetSelectedModelNodes(selected)
			}
			for _, id := range removes {
				node, err := nodeForID(e, id)
				if err != nil {
					return err
				}
				node.Destroy()
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a property, as id.property=value; the value is JSON or a plain string")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "Select the node with this id")
	cmd.Flags().StringArrayVar(&removes, "remove", nil, "Remove the node with this id")
	return cmd
}

func nodeForID(e *editor, id string) (model.ModelNode, error) {
	node := e.ModelNodeForID(id)
	if !node.IsValid() {
		return model.ModelNode{}, fmt.Errorf("no node with id %q", id)
	}
	return node, nil
}

// applySet applies one "id.property=value" edit.
func applySet(e *editor, edit string) error {
	target, text, ok := strings.Cut(edit, "=")
	i := strings.LastIndexByte(target, '.')
	if !ok || i <= 0 || i == len(target)-1 {
		return fmt.Errorf("invalid edit %q: want id.property=value", edit)
	}
	node, err := nodeForID(e, target[:i])
	if err != nil {
		return err
	}

	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		value = text
	}
	node.VariantProperty(target[i+1:]).SetValue(value)
	return nil
}
