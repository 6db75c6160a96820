package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmlmodel/model"
)

func ids(nodes []model.ModelNode) []int32 {
	out := make([]int32, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.InternalID())
	}
	return out
}

func TestCreateNode(t *testing.T) {
	f := newFixture()

	n := f.create("QtQuick.Rectangle",
		model.PropertyValue{Name: "width", Value: 10},
		model.PropertyValue{Name: "id", Value: "ignored"},
		model.PropertyValue{Name: "height", Value: nil},
	)

	require.True(t, n.IsValid())
	assert.Equal(t, int32(1), n.InternalID())
	assert.Equal(t, "QtQuick.Rectangle", n.Type())
	assert.Equal(t, "Rectangle", n.SimplifiedTypeName())
	assert.Equal(t, []string{"width"}, n.PropertyNames())
	assert.False(t, n.HasParentProperty())
	assert.Equal(t, 2, f.m.NodeCount())

	assert.Equal(t, []string{
		"rewriter:nodeCreated", "instance:nodeCreated", "first:nodeCreated", "second:nodeCreated",
		"rewriter:variantPropertiesChanged", "instance:variantPropertiesChanged",
		"first:variantPropertiesChanged", "second:variantPropertiesChanged",
	}, f.j.entries)
	added := f.first.last("variantPropertiesChanged").(model.VariantPropertiesChanged)
	assert.True(t, added.Flags.Has(model.PropertiesAdded))

	invalid := f.m.CreateNode(nil, model.NodeTemplate{})
	assert.False(t, invalid.IsValid())
	assert.Equal(t, int32(-1), invalid.InternalID())
}

func TestInternalIDsAreNotReused(t *testing.T) {
	f := newFixture()
	a := f.create("QtQuick.Item")
	a.Destroy()
	b := f.create("QtQuick.Item")

	assert.Equal(t, int32(1), a.InternalID())
	assert.Equal(t, int32(2), b.InternalID())
	assert.False(t, a.IsValid())
}

func TestRemoveNodeCascades(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	b := f.child(a, "data", "QtQuick.Rectangle")
	c := f.child(a, "data", "QtQuick.Text")
	b.SetID("box")
	f.m.SetSelectedNodes([]model.ModelNode{b, root})
	f.reset()

	a.Destroy()

	for _, n := range []model.ModelNode{a, b, c} {
		assert.False(t, n.IsValid(), n.String())
	}
	assert.False(t, f.m.HasID("box"))
	assert.Equal(t, 1, f.m.NodeCount())
	assert.False(t, root.HasProperty("data"), "empty list property is cleaned up")
	assert.Equal(t, []int32{0}, ids(f.m.SelectedNodes(nil)))

	assert.Equal(t, []string{
		"rewriter:nodeAboutToBeRemoved", "first:nodeAboutToBeRemoved",
		"second:nodeAboutToBeRemoved", "instance:nodeAboutToBeRemoved",
		"first:selectedNodesChanged", "second:selectedNodesChanged", "instance:selectedNodesChanged",
		"rewriter:nodeRemoved", "instance:nodeRemoved", "first:nodeRemoved", "second:nodeRemoved",
	}, f.j.entries)

	removed := f.first.last("nodeRemoved").(model.NodeRemoved)
	assert.Equal(t, a.InternalID(), removed.Node.InternalID())
	assert.False(t, removed.Node.IsValid())
	assert.Equal(t, "data", removed.ParentProperty.Name())
	assert.True(t, removed.Flags.Has(model.EmptyPropertiesRemoved))
}

func TestRootCannotBeRemoved(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	root.Destroy()
	assert.True(t, root.IsValid())
	assert.Empty(t, f.j.entries)
}

func TestReparent(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	b := f.child(root, "data", "QtQuick.Item")
	c := f.child(a, "data", "QtQuick.Rectangle")
	f.reset()

	b.NodeListProperty("data").ReparentHere(c)

	assert.True(t, c.Parent().Equal(b))
	assert.Equal(t, "data", c.ParentProperty().Name())
	assert.False(t, a.HasProperty("data"))
	assert.Equal(t, []string{
		"rewriter:nodeAboutToBeReparented", "first:nodeAboutToBeReparented",
		"second:nodeAboutToBeReparented", "instance:nodeAboutToBeReparented",
		"rewriter:nodeReparented", "first:nodeReparented",
		"second:nodeReparented", "instance:nodeReparented",
	}, f.j.entries)

	about := f.first.last("nodeAboutToBeReparented").(model.NodeAboutToBeReparented)
	assert.True(t, about.Flags.Has(model.PropertiesAdded))
	assert.True(t, about.OldParentProperty.ParentModelNode().Equal(a))
	done := f.first.last("nodeReparented").(model.NodeReparented)
	assert.True(t, done.Flags.Has(model.PropertiesAdded))
	assert.True(t, done.Flags.Has(model.EmptyPropertiesRemoved))
	assert.True(t, done.NewParentProperty.ParentModelNode().Equal(b))
}

func TestReparentRejectsCycles(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	b := f.child(a, "data", "QtQuick.Item")
	f.reset()

	b.NodeListProperty("data").ReparentHere(a)
	a.NodeListProperty("data").ReparentHere(a)
	a.NodeListProperty("data").ReparentHere(root)

	assert.Empty(t, f.j.entries)
	assert.True(t, a.Parent().Equal(root))
	assert.True(t, b.Parent().Equal(a))
	assert.True(t, root.IsAncestorOf(b))
	assert.False(t, b.IsAncestorOf(a))
	assert.False(t, a.IsAncestorOf(a))
}

func TestNodePropertyOwnsOneChild(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	first := f.create("QtQuick.Rectangle")
	second := f.create("QtQuick.Rectangle")

	root.NodeProperty("background").SetModelNode(first)
	assert.True(t, root.NodeProperty("background").ModelNode().Equal(first))

	f.reset()
	root.NodeProperty("background").SetModelNode(first)
	assert.Empty(t, f.j.entries, "same child is a no-op")

	root.NodeProperty("background").SetModelNode(second)
	assert.False(t, first.IsValid(), "previous child is destroyed")
	assert.True(t, root.NodeProperty("background").ModelNode().Equal(second))
	assert.Equal(t, 1, root.NodeProperty("background").Count())

	root.NodeListProperty("background").ReparentHere(f.create("QtQuick.Item"))
	assert.Equal(t, 1, root.NodeProperty("background").Count(), "kind mismatch is rejected")
}

func TestNodePropertyKeepsOccupantContainingNewChild(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	outer := f.create("QtQuick.Item")
	inner := f.create("QtQuick.Rectangle")
	root.NodeProperty("contentItem").SetModelNode(outer)
	outer.NodeListProperty("data").ReparentHere(inner)

	f.reset()
	root.NodeProperty("contentItem").SetModelNode(inner)

	assert.Empty(t, f.j.entries)
	assert.True(t, outer.IsValid())
	assert.True(t, inner.IsValid())
	assert.True(t, root.NodeProperty("contentItem").ModelNode().Equal(outer))
	assert.True(t, inner.ParentProperty().ParentModelNode().Equal(outer))
	for _, n := range root.AllSubModelNodes() {
		assert.True(t, n.IsValid(), "node %d is reachable but removed", n.InternalID())
	}
}

func TestDynamicTypeIsKept(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.create("QtQuick.Item")
	b := f.create("QtQuick.Item")

	root.NodeProperty("content").SetDynamicTypeNameAndsetModelNode("Item", a)
	assert.Equal(t, "Item", root.Property("content").DynamicTypeName())

	root.NodeProperty("content").SetDynamicTypeNameAndsetModelNode("Rectangle", b)
	assert.True(t, root.NodeProperty("content").ModelNode().Equal(a))
	assert.True(t, b.IsValid())
}

func TestPropertyKindChange(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	root.VariantProperty("width").SetValue(100)
	f.reset()

	root.BindingProperty("width").SetExpression("parent.width")

	assert.Equal(t, model.BindingPropertyKind, root.Property("width").Kind())
	assert.Nil(t, root.VariantProperty("width").Value())
	kinds := make([]string, 0)
	for _, n := range f.first.received {
		kinds = append(kinds, n.Kind())
	}
	want := []string{
		"propertiesAboutToBeRemoved", "propertiesRemoved",
		"bindingPropertiesAboutToBeChanged", "bindingPropertiesChanged",
	}
	if diff := cmp.Diff(want, kinds[len(kinds)-4:]); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	changed := f.first.last("bindingPropertiesChanged").(model.BindingPropertiesChanged)
	assert.True(t, changed.Flags.Has(model.PropertiesAdded))
}

func TestSettersRejectInvalidInput(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)

	root.VariantProperty("").SetValue(1)
	root.VariantProperty("id").SetValue("x")
	root.VariantProperty("width").SetValue(nil)
	root.BindingProperty("width").SetExpression("")
	root.SignalHandlerProperty("onClicked").SetSource("")
	root.SignalDeclarationProperty("clicked").SetSignature("")

	assert.Empty(t, root.PropertyNames())
	assert.Empty(t, f.j.entries)
}

func TestSettersAreIdempotent(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	root.VariantProperty("color").SetValue("red")
	root.BindingProperty("height").SetExpression("width")
	root.SignalHandlerProperty("onClicked").SetSource("print(1)")
	root.SignalDeclarationProperty("moved").SetSignature("(int x)")
	f.reset()

	root.VariantProperty("color").SetValue("red")
	root.BindingProperty("height").SetExpression("width")
	root.SignalHandlerProperty("onClicked").SetSource("print(1)")
	root.SignalDeclarationProperty("moved").SetSignature("(int x)")

	assert.Empty(t, f.j.entries)
	assert.Equal(t, "print(1)", root.SignalHandlerProperty("onClicked").Source())
	assert.Equal(t, "(int x)", root.SignalDeclarationProperty("moved").Signature())
}

func TestRemoveNodeProperty(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "states", "QtQuick.State")
	b := f.child(a, "changes", "QtQuick.PropertyChanges")
	f.m.SetSelectedNodes([]model.ModelNode{b})
	f.reset()

	root.RemoveProperty("states")

	assert.False(t, a.IsValid())
	assert.False(t, b.IsValid())
	assert.Empty(t, f.m.SelectedNodes(nil))
	assert.Equal(t, []string{
		"rewriter:propertiesAboutToBeRemoved", "first:propertiesAboutToBeRemoved",
		"second:propertiesAboutToBeRemoved", "instance:propertiesAboutToBeRemoved",
		"first:selectedNodesChanged", "second:selectedNodesChanged", "instance:selectedNodesChanged",
		"rewriter:propertiesRemoved", "instance:propertiesRemoved",
		"first:propertiesRemoved", "second:propertiesRemoved",
	}, f.j.entries)
}

func TestSelection(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	gone := f.create("QtQuick.Item")
	gone.Destroy()
	f.reset()

	f.m.SetSelectedNodes([]model.ModelNode{a, root, a, gone})
	assert.Equal(t, []int32{0, a.InternalID()}, ids(f.m.SelectedNodes(nil)))
	assert.True(t, a.IsSelected())
	assert.Len(t, f.first.received, 1)

	f.m.SetSelectedNodes([]model.ModelNode{root, a})
	assert.Len(t, f.first.received, 1, "same selection does not notify")

	f.m.ClearSelectedNodes()
	changed := f.first.last("selectedNodesChanged").(model.SelectedNodesChanged)
	assert.Empty(t, changed.Selected)
	assert.Equal(t, []int32{0, a.InternalID()}, ids(changed.LastSelected))
}

func TestSlide(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	b := f.child(root, "data", "QtQuick.Item")
	c := f.child(root, "data", "QtQuick.Item")
	f.reset()

	list := root.NodeListProperty("data")
	list.Slide(0, 2)
	assert.Equal(t, []int32{b.InternalID(), c.InternalID(), a.InternalID()}, ids(list.ToModelNodeList()))

	changed := f.first.last("nodeOrderChanged").(model.NodeOrderChanged)
	assert.True(t, changed.Node.Equal(a))
	assert.Equal(t, 0, changed.OldIndex)

	f.reset()
	list.Slide(1, 1)
	list.Slide(0, 5)
	assert.Empty(t, f.j.entries)
	assert.True(t, list.At(2).Equal(a))
	assert.False(t, list.At(3).IsValid())
}

func TestStaleHandles(t *testing.T) {
	f := newFixture()
	n := f.child(f.m.RootModelNode(nil), "data", "QtQuick.Rectangle")
	n.VariantProperty("width").SetValue(5)
	id := n.InternalID()
	n.Destroy()
	f.reset()

	assert.False(t, n.IsValid())
	assert.Equal(t, id, n.InternalID())
	assert.Empty(t, n.Type())
	assert.Nil(t, n.VariantProperty("width").Value())
	assert.False(t, n.Parent().IsValid())
	assert.Empty(t, n.Properties())

	n.VariantProperty("width").SetValue(10)
	n.SetID("stale")
	n.SetAuxiliaryData(model.LockedKey, true)
	n.Destroy()
	assert.Empty(t, f.j.entries)

	var zero model.ModelNode
	assert.False(t, zero.IsValid())
	zero.SetID("x")
	zero.Destroy()
	assert.Nil(t, zero.Model())
}

func TestAuxiliaryData(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	child := f.child(root, "data", "QtQuick.Item")
	f.reset()

	root.SetAuxiliaryData(model.LockedKey, true)
	root.SetAuxiliaryData(model.LockedKey, true)
	assert.Len(t, f.first.received, 1, "second set with equal value is a no-op")
	assert.True(t, child.IsLocked())

	root.SetAuxiliaryData(model.InvisibleKey, false)
	list := root.AuxiliaryDataList()
	require.Len(t, list, 2)
	assert.Equal(t, model.InvisibleKey, list[0].Key)

	root.RemoveAuxiliaryData(model.LockedKey)
	assert.False(t, root.HasAuxiliaryData(model.LockedKey))
	assert.False(t, child.IsLocked())
	changed := f.first.last("auxiliaryDataChanged").(model.AuxiliaryDataChanged)
	assert.Equal(t, model.LockedKey, changed.Key)
	assert.Nil(t, changed.Value)
}

func TestSoftState(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	state := f.child(root, "states", "QtQuick.State")
	f.reset()

	f.m.SetCurrentStateNode(state)
	assert.False(t, f.m.IsBaseState())
	f.m.SetCurrentStateNode(model.ModelNode{})
	assert.True(t, f.m.IsBaseState())

	f.m.SetFileURL("file:///tmp/Main.qml")
	f.m.SetFileURL("file:///tmp/Main.qml")
	assert.Equal(t, "file:///tmp/Main.qml", f.m.FileURL())

	quick := model.ParseImport("QtQuick 2.15")
	f.m.ChangeImports([]model.Import{quick, quick}, nil)
	f.m.ChangeImports([]model.Import{quick}, nil)
	assert.Len(t, f.m.Imports(), 1)
	f.m.ChangeImports(nil, []model.Import{quick})
	assert.Empty(t, f.m.Imports())

	assert.Equal(t, []string{
		"currentStateChanged", "currentStateChanged",
		"fileUrlChanged", "importsChanged", "importsChanged",
	}, kindsOf(f.first.received))
}

func kindsOf(ns []model.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind())
	}
	return out
}

func TestChangeType(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	n := f.child(root, "data", "QtQuick.Item")
	n.VariantProperty("width").SetValue(3)
	f.reset()

	n.ChangeType("QtQuick.Rectangle", 2, 15)
	f.m.ChangeRootNodeType("QtQuick.Rectangle", 2, 15)

	assert.Equal(t, "QtQuick.Rectangle", n.Type())
	assert.Equal(t, 3, n.VariantProperty("width").Value())
	assert.Equal(t, "QtQuick.Rectangle", root.Type())
	assert.Equal(t, []string{"nodeTypeChanged", "rootNodeTypeChanged"}, kindsOf(f.first.received))
}

func TestScriptFunctionsAndNodeSource(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)

	root.SetScriptFunctions([]string{"function f() {}"})
	root.SetScriptFunctions([]string{"function f() {}"})
	root.SetNodeSource("ListElement { a: 1 }", model.NodeWithCustomParserSource)

	assert.Equal(t, []string{"function f() {}"}, root.ScriptFunctions())
	assert.Equal(t, model.NodeWithCustomParserSource, root.NodeSourceType())
	assert.Equal(t, []string{
		"rewriter:scriptFunctionsChanged", "instance:scriptFunctionsChanged",
		"first:scriptFunctionsChanged", "second:scriptFunctionsChanged",
		"rewriter:nodeSourceChanged", "first:nodeSourceChanged",
		"second:nodeSourceChanged", "instance:nodeSourceChanged",
	}, f.j.entries)
}

func TestTreeQueries(t *testing.T) {
	f := newFixture()
	root := f.m.RootModelNode(nil)
	a := f.child(root, "data", "QtQuick.Item")
	b := f.child(a, "data", "QtQuick.Item")
	c := f.child(root, "data", "QtQuick.Item")
	d := f.create("QtQuick.Item")
	root.NodeProperty("background").SetModelNode(d)

	assert.Equal(t, []int32{a.InternalID(), c.InternalID(), d.InternalID()}, ids(root.DirectSubModelNodes()))
	assert.Equal(t, []int32{a.InternalID(), b.InternalID(), c.InternalID(), d.InternalID()}, ids(root.AllSubModelNodes()))
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, ids(f.m.AllNodes(nil)))
	assert.True(t, root.IsRootNode())
	assert.False(t, a.IsRootNode())
	assert.Equal(t, 1, root.NodeListProperty("data").IndexOf(c))
	assert.Len(t, root.NodeAbstractProperties(), 2)
}
