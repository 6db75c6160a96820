package model

// View observes a Model. Embed ViewBase to implement it.
type View interface {
	// Notify delivers one notification. Errors returned by feature views
	// are logged and otherwise ignored; the rewriter view may return a
	// *RewriteError to request a document reset.
	Notify(n Notification) error

	base() *ViewBase
}

type viewRole int

const (
	featureRole viewRole = iota
	rewriterRole
	instanceRole
)

// ViewBase carries the per-view state used by the model. It must be
// embedded by every View and not copied after the view is attached.
type ViewBase struct {
	self    View
	model   *Model
	role    viewRole
	name    string
	blocked bool
}

func (b *ViewBase) base() *ViewBase {
	return b
}

// Notify ignores everything; views override it.
func (b *ViewBase) Notify(Notification) error {
	return nil
}

// Model returns the model the view is attached to, or nil.
func (b *ViewBase) Model() *Model {
	return b.model
}

func (b *ViewBase) IsAttached() bool {
	return b.model != nil
}

// DisplayName is the name used when reporting failures of this view.
func (b *ViewBase) DisplayName() string {
	if b.name == "" {
		return "unnamed view"
	}
	return b.name
}

func (b *ViewBase) SetDisplayName(name string) {
	b.name = name
}

// BlockNotifications suppresses (or resumes) delivery to this view and
// returns the previous state.
func (b *ViewBase) BlockNotifications(block bool) bool {
	old := b.blocked
	b.blocked = block
	return old
}

func (b *ViewBase) NotificationsBlocked() bool {
	return b.blocked
}

// IsRewriterView reports whether the view occupies the rewriter slot.
func (b *ViewBase) IsRewriterView() bool {
	return b.model != nil && b.role == rewriterRole
}

// IsNodeInstanceView reports whether the view occupies the instance view slot.
func (b *ViewBase) IsNodeInstanceView() bool {
	return b.model != nil && b.role == instanceRole
}

// RootModelNode returns the root node scoped to this view.
func (b *ViewBase) RootModelNode() ModelNode {
	if b.model == nil {
		return ModelNode{}
	}
	return b.model.RootModelNode(b.self)
}

// ModelNodeForInternalID returns the node with the given internal id,
// or an invalid node.
func (b *ViewBase) ModelNodeForInternalID(internalID int32) ModelNode {
	if b.model == nil {
		return ModelNode{}
	}
	return b.model.NodeForInternalID(b.self, internalID)
}

// ModelNodeForID returns the node with the given id, or an invalid node.
func (b *ViewBase) ModelNodeForID(id string) ModelNode {
	if b.model == nil {
		return ModelNode{}
	}
	return b.model.NodeForID(b.self, id)
}

func (b *ViewBase) HasID(id string) bool {
	return b.model != nil && b.model.HasID(id)
}

func (b *ViewBase) HasModelNodeForInternalID(internalID int32) bool {
	return b.model != nil && b.model.HasNodeForInternalID(internalID)
}

// AllModelNodes returns every node of the model ordered by internal id.
func (b *ViewBase) AllModelNodes() []ModelNode {
	if b.model == nil {
		return nil
	}
	return b.model.AllNodes(b.self)
}

// CreateModelNode creates a detached node; see Model.CreateNode.
func (b *ViewBase) CreateModelNode(t NodeTemplate) ModelNode {
	if b.model == nil {
		return ModelNode{}
	}
	return b.model.CreateNode(b.self, t)
}

func (b *ViewBase) SelectedModelNodes() []ModelNode {
	if b.model == nil {
		return nil
	}
	return b.model.SelectedNodes(b.self)
}

func (b *ViewBase) SetSelectedModelNodes(nodes []ModelNode) {
	if b.model != nil {
		b.model.SetSelectedNodes(nodes)
	}
}

func (b *ViewBase) SelectModelNode(node ModelNode) {
	b.SetSelectedModelNodes([]ModelNode{node})
}

func (b *ViewBase) ClearSelectedModelNodes() {
	b.SetSelectedModelNodes(nil)
}

// GenerateNewID returns an unused id derived from prefix.
func (b *ViewBase) GenerateNewID(prefix, fallback string) string {
	if b.model == nil {
		return ""
	}
	return b.model.GenerateNewID(prefix, fallback)
}

// EmitCustomNotification sends a CustomNotification to every other view.
func (b *ViewBase) EmitCustomNotification(identifier string, nodes []ModelNode, data ...interface{}) {
	if b.model != nil {
		b.model.EmitCustomNotification(b.self, identifier, nodes, data...)
	}
}
