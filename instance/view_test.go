package instance_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmlmodel/instance"
	"github.com/CrimsonAS/qmlmodel/model"
	"github.com/CrimsonAS/qmlmodel/puppet"
)

func TestAttachSendsScene(t *testing.T) {
	m := newModel()
	m.ChangeImports([]model.Import{{URL: "QtQuick", Version: "2.15"}}, nil)
	m.SetFileURL("file:///work/Main.qml")

	f := newFixture(t, m)
	root := f.root()
	root.SetID("page")
	root.SetAuxiliaryData(model.LanguageKey, "de_DE")

	// Build the document while the mirror is detached.
	m.SetNodeInstanceView(nil)
	rect := f.child(root, "QtQuick.Rectangle", model.PropertyValue{Name: "color", Value: "red"})
	rect.SetID("rect")
	rect.BindingProperty("width").SetExpression("parent.width")
	rect.SetAuxiliaryData(model.LockedKey, true)
	rect.SetAuxiliaryData(model.AuxiliaryDataKey{Type: model.TemporaryAuxiliary, Name: "expanded"}, true)
	button := f.child(rect, "MyButton", model.PropertyValue{Name: "label", Value: "OK"})
	button.BindingProperty("enabled").SetExpression("true")

	st := &starter{}
	v := instance.NewNodeInstanceView(st)
	m.SetNodeInstanceView(v)

	require.Len(t, st.sinks, 1)
	s := st.current()
	require.Equal(t, []string{"CREATE_SCENE"}, s.names())
	scene := s.commands[0].(instance.CreateSceneCommand)

	var instances []int32
	for _, c := range scene.Instances {
		instances = append(instances, c.InstanceID)
	}
	assert.Equal(t, []int32{0, rect.InternalID(), button.InternalID()}, instances)
	assert.Equal(t, instance.ItemMetaType, scene.Instances[1].MetaType)
	assert.Equal(t, instance.ObjectMetaType, scene.Instances[2].MetaType, "unknown types are not graphical")

	assert.Equal(t, []instance.ReparentContainer{
		{InstanceID: rect.InternalID(), OldParentInstanceID: -1, NewParentInstanceID: 0, NewParentProperty: "data"},
		{InstanceID: button.InternalID(), OldParentInstanceID: -1, NewParentInstanceID: rect.InternalID(), NewParentProperty: "data"},
	}, scene.Reparents)
	assert.Equal(t, []instance.IDContainer{{InstanceID: 0, ID: "page"}, {InstanceID: rect.InternalID(), ID: "rect"}}, scene.IDs)
	assert.Contains(t, scene.Values, instance.PropertyValueContainer{InstanceID: rect.InternalID(), Name: "color", Value: "red"})
	assert.Contains(t, scene.Bindings, instance.PropertyBindingContainer{InstanceID: rect.InternalID(), Name: "width", Expression: "parent.width"})
	assert.Equal(t, []instance.PropertyValueContainer{
		{InstanceID: rect.InternalID(), Name: "locked", Value: true, AuxiliaryType: "document"},
	}, scene.Auxiliary)
	assert.Equal(t, []model.Import{{URL: "QtQuick", Version: "2.15"}}, scene.Imports)
	assert.Equal(t, "file:///work/Main.qml", scene.FileURL)
	assert.Equal(t, "de_DE", scene.Language)
	assert.Equal(t, int32(-1), scene.StateInstanceID)

	assert.Equal(t, []instance.MockupTypeContainer{{
		TypeName:     "MyButton",
		MajorVersion: 2,
		MinorVersion: 15,
		IsItem:       true,
		Properties:   map[string]string{"label": "string", "enabled": "var"},
	}}, scene.MockupTypes)
}

func TestCreateAndReparentOrder(t *testing.T) {
	f := newFixture(t, nil)
	s := f.sink()
	s.reset()

	rect := f.child(f.root(), "QtQuick.Rectangle", model.PropertyValue{Name: "color", Value: "red"})

	want := []string{"CREATE_INSTANCES", "CHANGE_VALUES", "COMPLETE_COMPONENT", "REPARENT_INSTANCES"}
	if diff := cmp.Diff(want, s.names()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, instance.ChangeValuesCommand{Values: []instance.PropertyValueContainer{
		{InstanceID: rect.InternalID(), Name: "color", Value: "red"},
	}}, s.commands[1])
	assert.Equal(t, instance.ReparentInstancesCommand{Reparents: []instance.ReparentContainer{{
		InstanceID:          rect.InternalID(),
		OldParentInstanceID: -1,
		NewParentInstanceID: 0,
		NewParentProperty:   "data",
	}}}, s.commands[3])

	rec, ok := f.view.InstanceForModelNode(rect)
	require.True(t, ok)
	assert.Equal(t, int32(0), rec.ParentInstanceID)
	assert.Equal(t, "QtQuick.Rectangle", rec.TypeName)
}

func TestRemoveNode(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	text := f.child(rect, "QtQuick.Text")
	s := f.sink()
	s.reset()

	rect.Destroy()

	assert.Equal(t, []string{"REMOVE_INSTANCES", "REMOVE_SHARED_MEMORY"}, s.names())
	assert.Equal(t, instance.RemoveInstancesCommand{InstanceIDs: []int32{rect.InternalID()}}, s.commands[0])
	assert.Equal(t, instance.RemoveSharedMemoryCommand{TypeName: "Image", Keys: []int32{rect.InternalID()}}, s.commands[1])
	assert.False(t, f.view.HasInstanceForModelNode(rect))
	assert.False(t, f.view.HasInstanceForModelNode(text))
	assert.Equal(t, 1, f.view.InstanceCount())
}

func TestRemoveProperties(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle", model.PropertyValue{Name: "color", Value: "red"})
	s := f.sink()
	s.reset()

	rect.RemoveProperty("color")
	assert.Equal(t, instance.RemovePropertiesCommand{Properties: []instance.PropertyAbstractContainer{
		{InstanceID: rect.InternalID(), Name: "color"},
	}}, s.last("REMOVE_PROPERTIES"))

	s.reset()
	f.root().RemoveProperty("data")
	assert.Equal(t, []string{"REMOVE_INSTANCES", "REMOVE_SHARED_MEMORY"}, s.names())
	assert.False(t, f.view.HasInstanceForModelNode(rect))
}

func TestPropertyChanges(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	s := f.sink()
	s.reset()

	rect.VariantProperty("color").SetValue("blue")
	rect.VariantProperty("color").SetValue("blue")
	rect.BindingProperty("height").SetExpression("width * 2")
	rect.SetID("box")
	rect.SetNodeSource("Rectangle {}", model.NodeWithComponentSource)

	assert.Equal(t, []string{"CHANGE_VALUES", "CHANGE_BINDINGS", "CHANGE_IDS", "CHANGE_NODE_SOURCE"}, s.names())
	assert.Equal(t, instance.ChangeBindingsCommand{Bindings: []instance.PropertyBindingContainer{
		{InstanceID: rect.InternalID(), Name: "height", Expression: "width * 2"},
	}}, s.commands[1])
	assert.Equal(t, instance.ChangeIDsCommand{IDs: []instance.IDContainer{{InstanceID: rect.InternalID(), ID: "box"}}}, s.commands[2])
}

func TestPositionShortcut(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	f.feature.received = nil

	rect.VariantProperty("x").SetValue(10.0)

	rec, _ := f.view.InstanceForModelNode(rect)
	assert.Equal(t, 10.0, rec.Position.X)
	change, ok := f.feature.last("instanceInformationsChanged").(model.InstanceInformationsChanged)
	require.True(t, ok)
	require.Len(t, change.Changes, 1)
	assert.True(t, change.Changes[0].Node.Equal(rect))
	assert.Equal(t, []model.InformationName{model.InformationTransform}, change.Changes[0].Names)
}

func TestPositionShortcutInState(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	rect.SetID("rect")
	state := f.feature.CreateModelNode(model.NodeTemplate{TypeName: "QtQuick.State", Major: 2, Minor: 15})
	f.root().NodeListProperty("states").ReparentHere(state)
	changes := f.child(state, "QtQuick.PropertyChanges")
	changes.BindingProperty("target").SetExpression("rect")

	f.m.SetCurrentStateNode(state)
	assert.Equal(t, instance.ChangeStateCommand{StateInstanceID: state.InternalID()}, f.sink().last("CHANGE_STATE"))

	changes.VariantProperty("y").SetValue(42)

	rec, _ := f.view.InstanceForModelNode(rect)
	assert.Equal(t, 42.0, rec.Position.Y)
	rec, _ = f.view.InstanceForModelNode(changes)
	assert.Equal(t, 0.0, rec.Position.Y)
}

func TestDirectUpdatesKeepPositionLocal(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	f.view.SetDirectUpdates(rect, true)
	s := f.sink()
	s.reset()

	rect.VariantProperty("x").SetValue(5.0)
	rect.VariantProperty("color").SetValue("green")

	assert.Equal(t, instance.ChangeValuesCommand{Values: []instance.PropertyValueContainer{
		{InstanceID: rect.InternalID(), Name: "color", Value: "green"},
	}}, s.last("CHANGE_VALUES"))
	assert.Len(t, s.commands, 1)
}

func TestAuxiliaryData(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle", model.PropertyValue{Name: "color", Value: "red"})
	id := rect.InternalID()
	s := f.sink()

	overwrite := model.AuxiliaryDataKey{Type: model.NodeInstancePropertyOverwriteAuxiliary, Name: "color"}
	instanceAux := model.AuxiliaryDataKey{Type: model.NodeInstanceAuxiliary, Name: "hidden"}

	tests := []struct {
		name string
		set  func()
		want interface{}
	}{
		{"lock", func() { rect.SetAuxiliaryData(model.LockedKey, true) },
			instance.ChangeAuxiliaryCommand{Values: []instance.PropertyValueContainer{{InstanceID: id, Name: "locked", Value: true, AuxiliaryType: "document"}}}},
		{"unlock", func() { rect.RemoveAuxiliaryData(model.LockedKey) },
			instance.ChangeAuxiliaryCommand{Values: []instance.PropertyValueContainer{{InstanceID: id, Name: "locked", Value: false, AuxiliaryType: "document"}}}},
		{"overwrite", func() { rect.SetAuxiliaryData(overwrite, "blue") },
			instance.ChangeValuesCommand{Values: []instance.PropertyValueContainer{{InstanceID: id, Name: "color", Value: "blue", AuxiliaryType: "nodeInstancePropertyOverwrite"}}}},
		{"overwrite removed", func() { rect.RemoveAuxiliaryData(overwrite) },
			instance.ChangeValuesCommand{Values: []instance.PropertyValueContainer{{InstanceID: id, Name: "color", Value: "red"}}}},
		{"instance auxiliary", func() { rect.SetAuxiliaryData(instanceAux, 1) },
			instance.ChangeAuxiliaryCommand{Values: []instance.PropertyValueContainer{{InstanceID: id, Name: "hidden", Value: 1, AuxiliaryType: "nodeInstanceAuxiliary"}}}},
		{"language", func() { f.root().SetAuxiliaryData(model.LanguageKey, "fi") },
			instance.ChangeLanguageCommand{Language: "fi"}},
		{"preview size", func() { f.root().SetAuxiliaryData(model.PreviewSizeKey, model.Size{Width: 64, Height: 48}) },
			instance.ChangePreviewImageSizeCommand{Size: model.Size{Width: 64, Height: 48}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.reset()
			tt.set()
			require.Len(t, s.commands, 1)
			assert.Equal(t, tt.want, s.commands[0])
		})
	}

	s.reset()
	rect.SetAuxiliaryData(model.AuxiliaryDataKey{Type: model.TemporaryAuxiliary, Name: "expanded"}, true)
	assert.Empty(t, s.commands, "temporary data stays in the editor")
}

func TestSelectionAndDocumentState(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	s := f.sink()
	s.reset()

	f.feature.SelectModelNode(rect)
	f.m.SetFileURL("file:///work/Other.qml")

	assert.Equal(t, []puppet.Command{
		instance.ChangeSelectionCommand{InstanceIDs: []int32{rect.InternalID()}},
		instance.ChangeFileURLCommand{FileURL: "file:///work/Other.qml"},
	}, s.commands)
}

func TestSlideReparentsInOrder(t *testing.T) {
	f := newFixture(t, nil)
	a := f.child(f.root(), "QtQuick.Item")
	b := f.child(f.root(), "QtQuick.Item")
	s := f.sink()
	s.reset()

	f.root().DefaultNodeListProperty().Slide(1, 0)

	cmd, ok := s.last("REPARENT_INSTANCES").(instance.ReparentInstancesCommand)
	require.True(t, ok)
	require.Len(t, cmd.Reparents, 2)
	assert.Equal(t, b.InternalID(), cmd.Reparents[0].InstanceID)
	assert.Equal(t, a.InternalID(), cmd.Reparents[1].InstanceID)
	assert.Equal(t, "data", cmd.Reparents[0].NewParentProperty)
	assert.Equal(t, "data", cmd.Reparents[0].OldParentProperty)
}

func TestSkippedTypes(t *testing.T) {
	m := model.New("QtQuick.ListModel", 2, 15, model.WithMetaInfo(model.QtQuickMetaInfo()))
	f := newFixture(t, m)
	assert.Empty(t, f.starter.sinks)
	assert.False(t, f.view.IsRunning())

	f = newFixture(t, nil)
	list := f.child(f.root(), "QtQuick.ListView")
	s := f.sink()
	s.reset()
	element := f.feature.CreateModelNode(model.NodeTemplate{TypeName: "QtQuick.ListElement"})
	list.NodeListProperty("model").ReparentHere(element)
	assert.NotContains(t, s.names(), "CREATE_INSTANCES")
	assert.False(t, f.view.HasInstanceForModelNode(element))
}

func TestCacheRoundTrip(t *testing.T) {
	cache := instance.NewCache()
	f := newFixture(t, nil, instance.WithCache(cache))
	rect := f.child(f.root(), "QtQuick.Rectangle")
	f.reply(t, "INFORMATION_CHANGED", instance.InformationChangedReply{Informations: []instance.InformationContainer{
		{InstanceID: rect.InternalID(), Name: model.InformationSize, Information: []byte(`{"width":20,"height":10}`)},
	}})
	before, _ := f.view.InstanceForModelNode(rect)

	f.m.SetNodeInstanceView(nil)
	require.True(t, cache.Has(f.m))
	assert.True(t, f.sink().closed)

	st := &starter{}
	v := instance.NewNodeInstanceView(st, instance.WithCache(cache))
	f.m.SetNodeInstanceView(v)

	after, ok := v.InstanceForModelNode(rect)
	require.True(t, ok)
	assert.Equal(t, before.InternalID, after.InternalID)
	assert.Equal(t, model.Size{Width: 20, Height: 10}, after.Size)
	assert.Equal(t, []string{"CREATE_SCENE"}, st.current().names(), "the new renderer still needs the scene")

	cache.Forget(f.m)
	assert.Equal(t, 0, cache.Len())
}

func TestCrashRestartIsRateLimited(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	f := newFixture(t, nil, instance.WithClock(clock), instance.WithCrashThreshold(5*time.Second))
	require.Len(t, f.starter.sinks, 1)

	now = now.Add(time.Second)
	f.view.HandleCrash()
	assert.Len(t, f.starter.sinks, 1, "no restart right after start")
	assert.False(t, f.view.IsRunning())
	require.Len(t, f.m.DocumentErrors(), 1)
	assert.Equal(t, instance.CrashMessage, f.m.DocumentErrors()[0].Description)
	crashed, ok := f.feature.last("customNotification").(model.CustomNotification)
	require.True(t, ok)
	assert.Equal(t, instance.PuppetCrashedNotification, crashed.Identifier)

	now = now.Add(10 * time.Second)
	f.view.HandleCrash()
	require.Len(t, f.starter.sinks, 2)
	assert.True(t, f.view.IsRunning())
	assert.Equal(t, []string{"CREATE_SCENE"}, f.sink().names())
}

func TestScheduledResetIsDebounced(t *testing.T) {
	posted := make(chan func(), 16)
	f := newFixture(t, nil,
		instance.WithResetDelay(10*time.Millisecond),
		instance.WithPoster(func(fn func()) { posted <- fn }))

	f.root().ChangeType("QtQuick.Rectangle", 2, 15)
	f.m.ChangeImports([]model.Import{{URL: "QtQuick.Controls"}}, nil)
	f.feature.EmitCustomNotification(instance.ResetPuppetNotification, nil)

	deadline := time.After(500 * time.Millisecond)
	for len(f.starter.sinks) < 2 {
		select {
		case fn := <-posted:
			fn()
		case <-deadline:
			t.Fatal("reset did not happen")
		}
	}
	// Late timers of superseded triggers must not restart again.
	quiet := time.After(50 * time.Millisecond)
	for done := false; !done; {
		select {
		case fn := <-posted:
			fn()
		case <-quiet:
			done = true
		}
	}
	assert.Len(t, f.starter.sinks, 2)
	assert.True(t, f.starter.sinks[0].closed)
}

func TestScheduledResetWaitsForOwner(t *testing.T) {
	f := newFixture(t, nil, instance.WithResetDelay(time.Millisecond))
	f.feature.EmitCustomNotification(instance.ResetPuppetNotification, nil)

	var fn func()
	select {
	case fn = <-f.view.Posted():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("reset was not queued")
	}
	require.Len(t, f.starter.sinks, 1, "the timer must not restart the renderer itself")

	// The owner keeps editing while the reset is queued.
	rect := f.child(f.root(), "QtQuick.Rectangle")
	fn()
	require.Len(t, f.starter.sinks, 2)
	assert.True(t, f.starter.sinks[0].closed)
	assert.Equal(t, []string{"CREATE_SCENE"}, f.sink().names())
	assert.True(t, f.view.HasInstanceForModelNode(rect))

	f.view.RunPending()
	assert.Len(t, f.starter.sinks, 2)
}

func TestDetachedMirrorIgnoresReplies(t *testing.T) {
	f := newFixture(t, nil)
	rect := f.child(f.root(), "QtQuick.Rectangle")
	f.m.SetNodeInstanceView(nil)
	f.feature.received = nil

	err := f.view.ProcessReply(&instance.ComponentCompletedReply{InstanceIDs: []int32{rect.InternalID()}})
	assert.NoError(t, err)
	assert.Empty(t, f.feature.received)
}
