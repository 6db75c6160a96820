package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmlmodel/model"
)

func TestBindingResolution(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Rectangle")
	b := f.child(root, "data", "QtQuick.Rectangle")
	a.SetID("a")
	b.SetID("b")

	b.BindingProperty("anchors.fill").SetExpression("a")
	assert.True(t, b.BindingProperty("anchors.fill").ResolveToModelNode().Equal(a))

	b.BindingProperty("target").SetExpression("parent")
	assert.True(t, b.BindingProperty("target").ResolveToModelNode().Equal(root))

	root.BindingProperty("targets").SetExpression("[a, missing, b]")
	assert.Equal(t, []int32{a.InternalID(), b.InternalID()}, ids(root.BindingProperty("targets").ResolveToModelNodeList()))

	b.BindingProperty("width").SetExpression("a.width")
	resolved := b.BindingProperty("width").ResolveToProperty()
	assert.Equal(t, "width", resolved.Name())
	assert.True(t, resolved.ParentModelNode().Equal(a))

	b.BindingProperty("height").SetExpression("missing.height")
	assert.False(t, b.BindingProperty("height").ResolveToProperty().IsValid())
}

func TestPropertyKinds(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	root.VariantProperty("count").SetDynamicTypeNameAndValue("int", 3)
	root.BindingProperty("width").SetExpression("200")
	root.SignalHandlerProperty("onClicked").SetSource("console.log(1)")
	root.SignalDeclarationProperty("moved").SetSignature("(real x)")
	f.child(root, "data", "QtQuick.Item")

	props := root.Properties()
	require.Len(t, props, 5)
	kinds := make([]model.PropertyKind, 0, len(props))
	for _, p := range props {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, []model.PropertyKind{
		model.VariantPropertyKind,
		model.BindingPropertyKind,
		model.SignalHandlerPropertyKind,
		model.SignalDeclarationPropertyKind,
		model.NodeListPropertyKind,
	}, kinds)

	count := root.Property("count")
	assert.True(t, count.IsDynamic())
	assert.Equal(t, "int", count.DynamicTypeName())
	assert.Equal(t, 3, count.ToVariantProperty().Value())
	assert.Empty(t, count.ToBindingProperty().Expression())
	assert.True(t, root.Property("data").IsNodeAbstractProperty())
	assert.Len(t, root.VariantProperties(), 1)
	assert.Len(t, root.BindingProperties(), 1)

	missing := root.Property("nothing")
	assert.True(t, missing.IsValid())
	assert.False(t, missing.Exists())
	assert.Equal(t, model.InvalidPropertyKind, missing.Kind())
}

func TestDefaultNodeListProperty(t *testing.T) {
	f := newFixture()
	state := f.child(f.m.RootModelNode(nil), "states", "QtQuick.State")

	assert.Equal(t, "data", f.m.RootModelNode(nil).DefaultNodeListProperty().Name())
	assert.Equal(t, "changes", state.DefaultNodeListProperty().Name())
	assert.True(t, state.IsSubclassOf("QtQml.QtObject"))
	assert.True(t, f.m.RootModelNode(nil).IsGraphical())
	assert.False(t, state.IsGraphical())
}
