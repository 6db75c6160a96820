package model_test

import (
	"github.com/CrimsonAS/qmlmodel/model"
)

// journal collects "view:kind" entries from several recorders in the order
// they were notified.
type journal struct {
	entries []string
}

func (j *journal) add(s string) {
	j.entries = append(j.entries, s)
}

func (j *journal) reset() {
	j.entries = nil
}

// only returns the entries for the given notification kinds.
func (j *journal) only(kinds ...string) []string {
	var out []string
	for _, e := range j.entries {
		for _, k := range kinds {
			if len(e) > len(k) && e[len(e)-len(k)-1:] == ":"+k {
				out = append(out, e)
			}
		}
	}
	return out
}

type recorder struct {
	model.ViewBase

	name     string
	journal  *journal
	received []model.Notification

	fail      func(n model.Notification) error
	panicWith func(n model.Notification) interface{}
	onNotify  func(n model.Notification)
}

func newRecorder(name string, j *journal) *recorder {
	r := &recorder{name: name, journal: j}
	r.SetDisplayName(name)
	return r
}

func (r *recorder) Notify(n model.Notification) error {
	r.journal.add(r.name + ":" + n.Kind())
	r.received = append(r.received, n)
	if r.onNotify != nil {
		r.onNotify(n)
	}
	if r.panicWith != nil {
		if v := r.panicWith(n); v != nil {
			panic(v)
		}
	}
	if r.fail != nil {
		return r.fail(n)
	}
	return nil
}

func (r *recorder) last(kind string) model.Notification {
	for i := len(r.received) - 1; i >= 0; i-- {
		if r.received[i].Kind() == kind {
			return r.received[i]
		}
	}
	return nil
}

// rewriter is a recorder able to reset the document text.
type rewriter struct {
	*recorder
	resets []string
}

func (r *rewriter) ResetToLastGoodText(text string) {
	r.resets = append(r.resets, text)
	r.journal.add(r.name + ":reset")
}

// fixture is a model with a rewriter, an instance view and two feature views
// attached.
type fixture struct {
	m        *model.Model
	j        *journal
	rewriter *rewriter
	instance *recorder
	first    *recorder
	second   *recorder
}

func newFixture() *fixture {
	f := &fixture{j: &journal{}}
	f.m = model.New("QtQuick.Item", 2, 15, model.WithMetaInfo(model.QtQuickMetaInfo()))
	f.rewriter = &rewriter{recorder: newRecorder("rewriter", f.j)}
	f.instance = newRecorder("instance", f.j)
	f.first = newRecorder("first", f.j)
	f.second = newRecorder("second", f.j)
	f.m.SetRewriterView(f.rewriter)
	f.m.SetNodeInstanceView(f.instance)
	f.m.AttachView(f.first)
	f.m.AttachView(f.second)
	f.reset()
	return f
}

// reset forgets everything recorded so far.
func (f *fixture) reset() {
	f.j.reset()
	for _, r := range []*recorder{f.rewriter.recorder, f.instance, f.first, f.second} {
		r.received = nil
	}
}

func (f *fixture) create(typeName string, props ...model.PropertyValue) model.ModelNode {
	return f.m.CreateNode(f.first, model.NodeTemplate{TypeName: typeName, Major: 2, Minor: 15, Properties: props})
}

// child creates a node and appends it to parent's list property.
func (f *fixture) child(parent model.ModelNode, property, typeName string) model.ModelNode {
	n := f.create(typeName)
	parent.NodeListProperty(property).ReparentHere(n)
	return n
}
