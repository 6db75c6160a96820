package scenefile

import (
	"context"
	"fmt"

	"github.com/CrimsonAS/qmlmodel/internal/ctxlog"
	"github.com/CrimsonAS/qmlmodel/model"
)

// builder is the view the scene is written through. It is detached once
// the tree is built.
type builder struct {
	model.ViewBase
	mi *model.StaticMetaInfo
}

func (*builder) Notify(model.Notification) error { return nil }

// MetaInfo returns the QtQuick types plus the types the scene registers.
func (s *Scene) MetaInfo() *model.StaticMetaInfo {
	mi := model.QtQuickMetaInfo()
	for _, t := range s.Types {
		mi.Register(t)
	}
	return mi
}

// Build creates a model holding the scene. Options are applied after the
// scene's own meta info, imports and file URL.
func (s *Scene) Build(ctx context.Context, opts ...model.Option) (*model.Model, error) {
	if s.Root == nil {
		return nil, fmt.Errorf("scene %s has no root node", s.Filename)
	}
	b := &builder{mi: s.MetaInfo()}
	major, minor := b.version(s.Root)
	opts = append([]model.Option{
		model.WithLogger(ctxlog.FromContext(ctx)),
		model.WithMetaInfo(b.mi),
		model.WithImports(s.Imports...),
		model.WithFileURL(s.FileURL),
	}, opts...)

	m := model.New(s.Root.TypeName, major, minor, opts...)
	m.AttachView(b)
	defer m.DetachView(b, false)

	root := b.RootModelNode()
	for _, pv := range s.Root.Properties {
		root.VariantProperty(pv.Name).SetValue(pv.Value)
	}
	for _, aux := range s.Root.Auxiliary {
		root.SetAuxiliaryData(aux.Key, aux.Value)
	}
	if s.Root.Source != "" {
		root.SetNodeSource(s.Root.Source, model.NodeWithComponentSource)
	}
	if err := b.fill(m, root, s.Root); err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Filename, err)
	}
	ctxlog.FromContext(ctx).Debug("scenefile: built model", "scene", s.Filename, "nodes", len(root.AllSubModelNodes())+1)
	return m, nil
}

// version returns the version of n, defaulting to the registered one.
func (b *builder) version(n *Node) (int, int) {
	if n.Major != 0 || n.Minor != 0 {
		return n.Major, n.Minor
	}
	if major, minor, ok := b.mi.TypeVersion(n.TypeName); ok {
		return major, minor
	}
	return 1, 0
}

// fill sets the id, bindings and signal handlers of node and creates its
// children.
func (b *builder) fill(m *model.Model, node model.ModelNode, n *Node) error {
	if n.ID != "" {
		if err := m.ValidateID(n.ID); err != nil {
			return fmt.Errorf("node %q: %w", n.TypeName, err)
		}
		node.SetID(n.ID)
	}

	for _, c := range n.Children {
		major, minor := b.version(c)
		t := model.NodeTemplate{
			TypeName:      c.TypeName,
			Major:         major,
			Minor:         minor,
			Properties:    c.Properties,
			AuxiliaryData: c.Auxiliary,
			NodeSource:    c.Source,
		}
		if c.Source != "" {
			t.SourceType = model.NodeWithComponentSource
		}
		child := b.CreateModelNode(t)
		if !child.IsValid() {
			return fmt.Errorf("cannot create node %q", c.TypeName)
		}

		switch {
		case c.ParentProperty == "":
			node.DefaultNodeListProperty().ReparentHere(child)
		case c.Single:
			node.NodeProperty(c.ParentProperty).ReparentHere(child)
		default:
			node.NodeListProperty(c.ParentProperty).ReparentHere(child)
		}
		if !child.Parent().Equal(node) {
			return fmt.Errorf("node %q cannot be placed in %s.%s", c.TypeName, node.Type(), c.ParentProperty)
		}

		if err := b.fill(m, child, c); err != nil {
			return err
		}
	}

	for _, bnd := range n.Bindings {
		node.BindingProperty(bnd.Name).SetExpression(bnd.Text)
	}
	for _, sig := range n.Signals {
		node.SignalHandlerProperty(sig.Name).SetSource(sig.Text)
	}
	return nil
}
