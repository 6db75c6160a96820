package scenefile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmlmodel/model"
)

func loadPage(t *testing.T) *Scene {
	t.Helper()
	scene, err := Load(context.Background(), filepath.Join("testdata", "page.hcl"))
	require.NoError(t, err)
	return scene
}

func TestLoad(t *testing.T) {
	scene := loadPage(t)

	assert.Equal(t, "file:///project/Page.qml", scene.FileURL)
	assert.Equal(t, []model.Import{
		{URL: "QtQuick", Version: "2.15"},
		{File: "components", Alias: "Components"},
	}, scene.Imports)
	require.Len(t, scene.Types, 1)
	assert.Equal(t, model.TypeInfo{
		Name:         "Card",
		Base:         "QtQuick.Item",
		Graphical:    true,
		MajorVersion: 1,
		Properties:   map[string]string{"title": "string"},
	}, scene.Types[0])

	root := scene.Root
	assert.Equal(t, "QtQuick.Item", root.TypeName)
	assert.Equal(t, "page", root.ID)
	assert.Equal(t, []model.PropertyValue{{Name: "height", Value: 480.5}, {Name: "width", Value: 640}}, root.Properties)
	assert.Equal(t, []model.AuxiliaryData{{Key: model.LanguageKey, Value: "en_US"}}, root.Auxiliary)
	require.Len(t, root.Children, 3)

	rect := root.Children[0]
	assert.Equal(t, []model.AuxiliaryData{
		{Key: model.LockedKey, Value: true},
		{Key: model.AuxiliaryDataKey{Type: model.NodeInstanceAuxiliary, Name: "selectionColor"}, Value: "red"},
	}, rect.Auxiliary)

	card := root.Children[1]
	assert.Equal(t, []NamedText{{Name: "height", Text: "page.height"}, {Name: "width", Text: "page.width / 2"}}, card.Bindings)
	assert.Equal(t, []NamedText{{Name: "onClicked", Text: "console.log(card.title)"}}, card.Signals)
	assert.Equal(t, []interface{}{"a", "b"}, card.Properties[0].Value)
	require.Len(t, card.Children, 1)
	assert.Equal(t, "label", card.Children[0].ParentProperty)
	assert.True(t, card.Children[0].Single)
}

func TestBuild(t *testing.T) {
	m, err := loadPage(t).Build(context.Background())
	require.NoError(t, err)

	v := &builder{}
	m.AttachView(v)
	root := v.RootModelNode()

	assert.Equal(t, "QtQuick.Item", root.Type())
	assert.Equal(t, 2, root.MajorVersion(), "version comes from the meta info")
	assert.Equal(t, "page", root.ID())
	assert.Equal(t, 640, root.VariantProperty("width").Value())
	language, ok := root.AuxiliaryData(model.LanguageKey)
	assert.True(t, ok)
	assert.Equal(t, "en_US", language)
	assert.Equal(t, "file:///project/Page.qml", m.FileURL())
	assert.Len(t, m.Imports(), 2)
	assert.True(t, m.MetaInfo().HasType("Card"))

	children := root.DefaultNodeListProperty().ToModelNodeList()
	require.Len(t, children, 2)
	rect, card := children[0], children[1]
	assert.Equal(t, "background", rect.ID())
	locked, _ := rect.AuxiliaryData(model.LockedKey)
	assert.Equal(t, true, locked)
	assert.Equal(t, 1, card.MajorVersion())
	assert.Equal(t, "page.width / 2", card.BindingProperty("width").Expression())
	assert.True(t, card.BindingProperty("height").ResolveToProperty().IsValid())
	assert.Equal(t, "console.log(card.title)", card.SignalHandlerProperty("onClicked").Source())

	label := card.NodeProperty("label").ModelNode()
	require.True(t, label.IsValid())
	assert.Equal(t, "caption", label.VariantProperty("text").Value())

	states := root.NodeListProperty("states").ToModelNodeList()
	require.Len(t, states, 1)
	assert.Equal(t, "wide", states[0].VariantProperty("name").Value())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `node "QtQuick.Item" {`, "failed to parse"},
		{"no root", `imports = ["QtQuick 2.15"]`, "exactly one node block"},
		{"two roots", "node \"QtQuick.Item\" {}\nnode \"QtQuick.Item\" {}", "exactly one node block"},
		{"unknown attribute", `node "QtQuick.Item" { colour = "red" }`, "failed to decode"},
		{"version", `node "QtQuick.Item" { version = "two" }`, "invalid version"},
		{"auxiliary key", `node "QtQuick.Item" { auxiliary = { "bogus:x" = 1 } }`, "invalid auxiliary key"},
		{"properties", `node "QtQuick.Item" { properties = "red" }`, "want an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildRejectsInvalidIDs(t *testing.T) {
	scene, err := Parse([]byte(`
node "QtQuick.Item" {
  id = "page"
  child "QtQuick.Rectangle" { id = "page" }
}`), "dup.hcl")
	require.NoError(t, err)
	_, err = scene.Build(context.Background())
	assert.ErrorIs(t, err, model.ErrDuplicateID)

	scene, err = Parse([]byte(`node "QtQuick.Item" { id = "parent" }`), "avoid.hcl")
	require.NoError(t, err)
	_, err = scene.Build(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestParseAuxiliaryKey(t *testing.T) {
	key, err := ParseAuxiliaryKey("invisible")
	require.NoError(t, err)
	assert.Equal(t, model.InvisibleKey, key)

	key, err = ParseAuxiliaryKey("customWidth")
	require.NoError(t, err)
	assert.Equal(t, model.AuxiliaryDataKey{Type: model.DocumentAuxiliary, Name: "customWidth"}, key)

	key, err = ParseAuxiliaryKey("nodeInstancePropertyOverwrite:color")
	require.NoError(t, err)
	assert.Equal(t, model.AuxiliaryDataKey{Type: model.NodeInstancePropertyOverwriteAuxiliary, Name: "color"}, key)

	_, err = ParseAuxiliaryKey("temporary:")
	assert.Error(t, err)
}
