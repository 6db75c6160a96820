package instance_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmlmodel/instance"
	"github.com/CrimsonAS/qmlmodel/model"
	"github.com/CrimsonAS/qmlmodel/puppet"
)

// sink records the commands of one renderer.
type sink struct {
	commands []puppet.Command
	closed   bool
}

func (s *sink) Send(cmd puppet.Command) error {
	s.commands = append(s.commands, cmd)
	return nil
}

func (s *sink) Close() error {
	s.closed = true
	return nil
}

func (s *sink) names() []string {
	var names []string
	for _, cmd := range s.commands {
		names = append(names, cmd.CommandName())
	}
	return names
}

func (s *sink) reset() {
	s.commands = nil
}

// last returns the last command called name.
func (s *sink) last(name string) puppet.Command {
	for i := len(s.commands) - 1; i >= 0; i-- {
		if s.commands[i].CommandName() == name {
			return s.commands[i]
		}
	}
	return nil
}

// starter hands out a new sink for every renderer start.
type starter struct {
	sinks   []*sink
	replies puppet.ReplyHandler
}

func (st *starter) StartPuppet(replies puppet.ReplyHandler) (instance.CommandSink, error) {
	s := &sink{}
	st.sinks = append(st.sinks, s)
	st.replies = replies
	return s, nil
}

func (st *starter) current() *sink {
	if len(st.sinks) == 0 {
		return nil
	}
	return st.sinks[len(st.sinks)-1]
}

// feature collects the notifications of an ordinary view.
type feature struct {
	model.ViewBase
	received []model.Notification
}

func (f *feature) Notify(n model.Notification) error {
	f.received = append(f.received, n)
	return nil
}

func (f *feature) kinds() []string {
	var kinds []string
	for _, n := range f.received {
		kinds = append(kinds, n.Kind())
	}
	return kinds
}

func (f *feature) last(kind string) model.Notification {
	for i := len(f.received) - 1; i >= 0; i-- {
		if f.received[i].Kind() == kind {
			return f.received[i]
		}
	}
	return nil
}

type fixture struct {
	m       *model.Model
	view    *instance.NodeInstanceView
	starter *starter
	feature *feature
}

func newModel() *model.Model {
	return model.New("QtQuick.Item", 2, 15, model.WithMetaInfo(model.QtQuickMetaInfo()))
}

// newFixture attaches a feature view and a mirror to m, or to a new model
// if m is nil.
func newFixture(t *testing.T, m *model.Model, opts ...instance.Option) *fixture {
	t.Helper()
	if m == nil {
		m = newModel()
	}
	f := &fixture{m: m, starter: &starter{}, feature: &feature{}}
	f.view = instance.NewNodeInstanceView(f.starter, opts...)
	m.AttachView(f.feature)
	m.SetNodeInstanceView(f.view)
	f.feature.received = nil
	return f
}

func (f *fixture) sink() *sink {
	return f.starter.current()
}

// child creates a node and appends it to the default property of parent.
func (f *fixture) child(parent model.ModelNode, typeName string, props ...model.PropertyValue) model.ModelNode {
	node := f.feature.CreateModelNode(model.NodeTemplate{TypeName: typeName, Major: 2, Minor: 15, Properties: props})
	parent.DefaultNodeListProperty().ReparentHere(node)
	return node
}

func (f *fixture) root() model.ModelNode {
	return f.feature.RootModelNode()
}

func (f *fixture) reply(t *testing.T, name string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, f.view.HandleReply(name, data))
}
