package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/qmlmodel/model"
)

// dumpNode is the JSON form of one node.
type dumpNode struct {
	InternalID int32                  `json:"internalId"`
	Type       string                 `json:"type"`
	Version    string                 `json:"version"`
	ID         string                 `json:"id,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Bindings   map[string]string      `json:"bindings,omitempty"`
	Signals    map[string]string      `json:"signals,omitempty"`
	Auxiliary  map[string]interface{} `json:"auxiliary,omitempty"`
	Children   map[string][]*dumpNode `json:"children,omitempty"`
}

type dumpOutput struct {
	FileURL string    `json:"fileUrl,omitempty"`
	Imports []string  `json:"imports,omitempty"`
	Root    *dumpNode `json:"root"`
	Errors  []string  `json:"errors,omitempty"`
}

// NewDumpCmd creates the dump subcommand.
func NewDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <scene.hcl>",
		Short: "Load a scene and print its node tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e := newEditor(m)

			out := dumpOutput{
				FileURL: m.FileURL(),
				Root:    dumpTree(e.RootModelNode()),
			}
			for _, msg := range m.DocumentErrors() {
				out.Errors = append(out.Errors, msg.Description)
			}
			for _, imp := range m.Imports() {
				out.Imports = append(out.Imports, imp.String())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}
}

func dumpTree(node model.ModelNode) *dumpNode {
	d := &dumpNode{
		InternalID: node.InternalID(),
		Type:       node.Type(),
		Version:    fmt.Sprintf("%d.%d", node.MajorVersion(), node.MinorVersion()),
		ID:         node.ID(),
	}
	for _, p := range node.Properties() {
		switch {
		case p.IsVariantProperty():
			if d.Properties == nil {
				d.Properties = make(map[string]interface{})
			}
			d.Properties[p.Name()] = p.ToVariantProperty().Value()
		case p.IsBindingProperty():
			if d.Bindings == nil {
				d.Bindings = make(map[string]string)
			}
			d.Bindings[p.Name()] = p.ToBindingProperty().Expression()
		case p.IsSignalHandlerProperty():
			if d.Signals == nil {
				d.Signals = make(map[string]string)
			}
			d.Signals[p.Name()] = p.ToSignalHandlerProperty().Source()
		case p.IsNodeAbstractProperty():
			if d.Children == nil {
				d.Children = make(map[string][]*dumpNode)
			}
			for _, child := range p.ToNodeAbstractProperty().DirectSubNodes() {
				d.Children[p.Name()] = append(d.Children[p.Name()], dumpTree(child))
			}
		}
	}
	for _, aux := range node.AuxiliaryDataList() {
		if d.Auxiliary == nil {
			d.Auxiliary = make(map[string]interface{})
		}
		d.Auxiliary[aux.Key.Type.String()+":"+aux.Key.Name] = aux.Value
	}
	return d
}
