package model

import (
	"log/slog"
	"sort"
)

// Model owns the node tree of one document and dispatches every change to
// the attached views. A Model is not safe for concurrent use; all calls
// must come from the goroutine owning it.
type Model struct {
	logger   *slog.Logger
	metaInfo MetaInfo
	fileURL  string
	imports  []Import

	nodes          map[int32]*internalNode
	ids            map[string]int32
	nextInternalID int32
	root           int32

	selection       []int32
	currentState    int32
	currentTimeline int32

	rewriter     View
	instanceView View
	views        []View

	write *writeGuard
	// delivering is the view currently being notified.
	delivering View

	documentErrors   []DocumentMessage
	documentWarnings []DocumentMessage
}

// Option configures a Model.
type Option func(*Model)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetaInfo(mi MetaInfo) Option {
	return func(m *Model) {
		if mi != nil {
			m.metaInfo = mi
		}
	}
}

func WithFileURL(url string) Option {
	return func(m *Model) {
		m.fileURL = url
	}
}

func WithImports(imports ...Import) Option {
	return func(m *Model) {
		m.imports = append(m.imports, imports...)
	}
}

// New creates a model whose root node has the given type. The root node
// has internal id 0. If typeName is empty the root is a QtQuick.Item.
func New(typeName string, major, minor int, opts ...Option) *Model {
	m := &Model{
		logger:          slog.Default(),
		metaInfo:        NewStaticMetaInfo(),
		nodes:           make(map[int32]*internalNode),
		ids:             make(map[string]int32),
		nextInternalID:  1,
		currentState:    invalidID,
		currentTimeline: invalidID,
	}
	for _, opt := range opts {
		opt(m)
	}
	if typeName == "" {
		typeName = "QtQuick.Item"
	}
	m.root = m.createNode(NodeTemplate{TypeName: typeName, Major: major, Minor: minor}, true)
	return m
}

func (m *Model) Logger() *slog.Logger {
	return m.logger
}

func (m *Model) MetaInfo() MetaInfo {
	return m.metaInfo
}

func (m *Model) FileURL() string {
	return m.fileURL
}

func (m *Model) Imports() []Import {
	return append([]Import(nil), m.imports...)
}

// liveNode returns the node for internalID if it is still part of the model.
func (m *Model) liveNode(internalID int32) *internalNode {
	n := m.nodes[internalID]
	if n == nil || !n.valid {
		return nil
	}
	return n
}

func (m *Model) nodeHandle(internalID int32, v View) ModelNode {
	return ModelNode{m: m, internalID: internalID, view: v}
}

func (m *Model) RootModelNode(v View) ModelNode {
	return m.nodeHandle(m.root, v)
}

func (m *Model) HasNodeForInternalID(internalID int32) bool {
	return m.liveNode(internalID) != nil
}

func (m *Model) NodeForInternalID(v View, internalID int32) ModelNode {
	if m.liveNode(internalID) == nil {
		return ModelNode{}
	}
	return m.nodeHandle(internalID, v)
}

func (m *Model) HasID(id string) bool {
	_, exists := m.ids[id]
	return exists
}

func (m *Model) NodeForID(v View, id string) ModelNode {
	internalID, exists := m.ids[id]
	if !exists {
		return ModelNode{}
	}
	return m.NodeForInternalID(v, internalID)
}

// NodeCount returns the number of live nodes, root included.
func (m *Model) NodeCount() int {
	return len(m.nodes)
}

// AllNodes returns every live node ordered by internal id, including nodes
// that were created but never attached to the tree.
func (m *Model) AllNodes(v View) []ModelNode {
	ids := make([]int32, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	nodes := make([]ModelNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, m.nodeHandle(id, v))
	}
	return nodes
}

func (m *Model) SelectedNodes(v View) []ModelNode {
	return m.handles(m.selection, v)
}

func (m *Model) handles(ids []int32, v View) []ModelNode {
	nodes := make([]ModelNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, m.nodeHandle(id, v))
	}
	return nodes
}

// CurrentStateNode returns the active state node; an invalid node means the
// base state.
func (m *Model) CurrentStateNode(v View) ModelNode {
	return m.NodeForInternalID(v, m.currentState)
}

func (m *Model) CurrentTimelineNode(v View) ModelNode {
	return m.NodeForInternalID(v, m.currentTimeline)
}

// IsBaseState reports whether no state is active.
func (m *Model) IsBaseState() bool {
	return m.liveNode(m.currentState) == nil
}

// Views returns the attached feature views in registration order.
func (m *Model) Views() []View {
	return append([]View(nil), m.views...)
}

func (m *Model) RewriterView() View {
	return m.rewriter
}

func (m *Model) NodeInstanceView() View {
	return m.instanceView
}

// AttachView registers a feature view. A view attached to another model is
// detached from it first.
func (m *Model) AttachView(v View) {
	b := v.base()
	if b.model == m {
		return
	}
	if b.model != nil {
		b.model.DetachView(v, true)
	}
	b.self = v
	b.model = m
	b.role = featureRole
	m.views = append(m.views, v)
	m.notifyView(v, ModelAttached{Model: m})
}

// DetachView unregisters a view of any role. ModelAboutToBeDetached is
// sent unless notify is false.
func (m *Model) DetachView(v View, notify bool) {
	b := v.base()
	if b.model != m {
		return
	}
	if notify {
		m.notifyView(v, ModelAboutToBeDetached{Model: m})
	}
	switch b.role {
	case rewriterRole:
		if m.rewriter == v {
			m.rewriter = nil
		}
	case instanceRole:
		if m.instanceView == v {
			m.instanceView = nil
		}
	default:
		for i, view := range m.views {
			if view == v {
				m.views = append(m.views[:i], m.views[i+1:]...)
				break
			}
		}
	}
	b.model = nil
	b.role = featureRole
}

// SetRewriterView puts v in the rewriter slot, replacing the current
// rewriter view. A nil v empties the slot.
func (m *Model) SetRewriterView(v View) {
	m.setSlot(&m.rewriter, v, rewriterRole)
}

// SetNodeInstanceView puts v in the instance view slot, replacing the
// current instance view. A nil v empties the slot.
func (m *Model) SetNodeInstanceView(v View) {
	m.setSlot(&m.instanceView, v, instanceRole)
}

func (m *Model) setSlot(slot *View, v View, role viewRole) {
	if *slot != nil && *slot == v {
		return
	}
	if *slot != nil {
		m.DetachView(*slot, true)
	}
	if v == nil {
		return
	}
	b := v.base()
	if b.model != nil {
		b.model.DetachView(v, true)
	}
	b.self = v
	b.model = m
	b.role = role
	*slot = v
	m.notifyView(v, ModelAttached{Model: m})
}

// Close detaches every view: feature views first, then the instance view
// and the rewriter view.
func (m *Model) Close() {
	for _, v := range m.Views() {
		m.DetachView(v, true)
	}
	if m.instanceView != nil {
		m.DetachView(m.instanceView, true)
	}
	if m.rewriter != nil {
		m.DetachView(m.rewriter, true)
	}
}
