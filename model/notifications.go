package model

// Notification is delivered to View.Notify. Views type-switch on the
// concrete types below and ignore the rest.
type Notification interface {
	Kind() string
}

// PropertyChangeFlags describe structural side effects of a change.
type PropertyChangeFlags int

const (
	NoAdditionalChanges PropertyChangeFlags = 0
	// PropertiesAdded is set when the change created the property.
	PropertiesAdded PropertyChangeFlags = 1 << iota
	// EmptyPropertiesRemoved is set when the change left a node property
	// without children and it was removed.
	EmptyPropertiesRemoved
)

func (f PropertyChangeFlags) Has(flag PropertyChangeFlags) bool {
	return f&flag != 0
}

// InformationName names one piece of renderer reported instance information.
type InformationName string

const (
	InformationSize          InformationName = "size"
	InformationBoundingRect  InformationName = "boundingRect"
	InformationContentRect   InformationName = "contentItemBoundingRect"
	InformationTransform     InformationName = "transform"
	InformationPosition      InformationName = "position"
	InformationParent        InformationName = "parent"
	InformationIsMovable     InformationName = "isMovable"
	InformationIsResizable   InformationName = "isResizable"
	InformationHasContent    InformationName = "hasContent"
	InformationHasAnchor     InformationName = "hasAnchor"
	InformationInstanceType  InformationName = "instanceTypeForProperty"
	InformationAllStates     InformationName = "allStates"
	InformationNoInformation InformationName = "noInformation"
)

// PropertyPair names a property of a node without requiring it to exist.
type PropertyPair struct {
	Node ModelNode
	Name string
}

// InformationChange lists which informations of one node changed.
type InformationChange struct {
	Node  ModelNode
	Names []InformationName
}

// Attachment.

type ModelAttached struct{ Model *Model }
type ModelAboutToBeDetached struct{ Model *Model }

// Structure.

type NodeCreated struct{ Node ModelNode }

type NodeAboutToBeRemoved struct{ Node ModelNode }

// NodeRemoved is sent after the node and its subtree are gone. Node is
// stale; only its internal id is meaningful. ParentProperty may no longer
// exist if EmptyPropertiesRemoved is set.
type NodeRemoved struct {
	Node           ModelNode
	ParentProperty NodeAbstractProperty
	Flags          PropertyChangeFlags
}

type NodeAboutToBeReparented struct {
	Node              ModelNode
	NewParentProperty NodeAbstractProperty
	OldParentProperty NodeAbstractProperty
	Flags             PropertyChangeFlags
}

type NodeReparented struct {
	Node              ModelNode
	NewParentProperty NodeAbstractProperty
	OldParentProperty NodeAbstractProperty
	Flags             PropertyChangeFlags
}

type NodeIDChanged struct {
	Node  ModelNode
	NewID string
	OldID string
}

type NodeTypeChanged struct {
	Node     ModelNode
	TypeName string
	Major    int
	Minor    int
}

type RootNodeTypeChanged struct {
	TypeName string
	Major    int
	Minor    int
}

type NodeSourceChanged struct {
	Node       ModelNode
	NodeSource string
}

type NodeOrderChanged struct {
	ListProperty NodeListProperty
	Node         ModelNode
	OldIndex     int
}

type ScriptFunctionsChanged struct {
	Node      ModelNode
	Functions []string
}

// Properties.

type PropertiesAboutToBeRemoved struct{ Properties []AbstractProperty }

// PropertiesRemoved carries handles to properties that no longer exist.
type PropertiesRemoved struct{ Properties []AbstractProperty }

type VariantPropertiesChanged struct {
	Properties []VariantProperty
	Flags      PropertyChangeFlags
}

type BindingPropertiesAboutToBeChanged struct{ Properties []BindingProperty }

type BindingPropertiesChanged struct {
	Properties []BindingProperty
	Flags      PropertyChangeFlags
}

type SignalHandlerPropertiesChanged struct {
	Properties []SignalHandlerProperty
	Flags      PropertyChangeFlags
}

type SignalDeclarationPropertiesChanged struct {
	Properties []SignalDeclarationProperty
	Flags      PropertyChangeFlags
}

// Soft state.

type AuxiliaryDataChanged struct {
	Node  ModelNode
	Key   AuxiliaryDataKey
	Value interface{}
}

type SelectedNodesChanged struct {
	Selected     []ModelNode
	LastSelected []ModelNode
}

type ImportsChanged struct {
	Added   []Import
	Removed []Import
}

type FileURLChanged struct {
	OldURL string
	NewURL string
}

type CurrentStateChanged struct{ Node ModelNode }
type CurrentTimelineChanged struct{ Node ModelNode }

type CustomNotification struct {
	Sender     View
	Identifier string
	Nodes      []ModelNode
	Data       []interface{}
}

type RewriterBeginTransaction struct{}
type RewriterEndTransaction struct{}

// Instance feedback.

type InstancePropertiesChanged struct{ Properties []PropertyPair }
type InstanceInformationsChanged struct{ Changes []InformationChange }
type InstancesCompleted struct{ Nodes []ModelNode }
type InstancesRenderImageChanged struct{ Nodes []ModelNode }
type InstancesPreviewImageChanged struct{ Nodes []ModelNode }
type InstancesChildrenChanged struct{ Nodes []ModelNode }
type InstanceErrorChanged struct{ Nodes []ModelNode }

type InstancesToken struct {
	Token  string
	Number int
	Nodes  []ModelNode
}

// Renderer and 3D editing.

type View3DAction struct {
	Action string
	Value  interface{}
}

type DragStarted struct{ Data map[string]interface{} }
type DragEnded struct{}

type ActiveScene3DChanged struct{ SceneID int32 }

type Edit3DToolStateChanged struct {
	SceneID int32
	State   map[string]interface{}
}

type RenderImage3DChanged struct{ Image []byte }

type ModelNodePreviewImageChanged struct {
	Node  ModelNode
	Image []byte
}

type Import3DSupportChanged struct{ Support map[string]interface{} }

type NodeAtPositionReady struct {
	Node     ModelNode
	Position Point
}

func (ModelAttached) Kind() string                      { return "modelAttached" }
func (ModelAboutToBeDetached) Kind() string             { return "modelAboutToBeDetached" }
func (NodeCreated) Kind() string                        { return "nodeCreated" }
func (NodeAboutToBeRemoved) Kind() string               { return "nodeAboutToBeRemoved" }
func (NodeRemoved) Kind() string                        { return "nodeRemoved" }
func (NodeAboutToBeReparented) Kind() string            { return "nodeAboutToBeReparented" }
func (NodeReparented) Kind() string                     { return "nodeReparented" }
func (NodeIDChanged) Kind() string                      { return "nodeIdChanged" }
func (NodeTypeChanged) Kind() string                    { return "nodeTypeChanged" }
func (RootNodeTypeChanged) Kind() string                { return "rootNodeTypeChanged" }
func (NodeSourceChanged) Kind() string                  { return "nodeSourceChanged" }
func (NodeOrderChanged) Kind() string                   { return "nodeOrderChanged" }
func (ScriptFunctionsChanged) Kind() string             { return "scriptFunctionsChanged" }
func (PropertiesAboutToBeRemoved) Kind() string         { return "propertiesAboutToBeRemoved" }
func (PropertiesRemoved) Kind() string                  { return "propertiesRemoved" }
func (VariantPropertiesChanged) Kind() string           { return "variantPropertiesChanged" }
func (BindingPropertiesAboutToBeChanged) Kind() string  { return "bindingPropertiesAboutToBeChanged" }
func (BindingPropertiesChanged) Kind() string           { return "bindingPropertiesChanged" }
func (SignalHandlerPropertiesChanged) Kind() string     { return "signalHandlerPropertiesChanged" }
func (SignalDeclarationPropertiesChanged) Kind() string { return "signalDeclarationPropertiesChanged" }
func (AuxiliaryDataChanged) Kind() string               { return "auxiliaryDataChanged" }
func (SelectedNodesChanged) Kind() string               { return "selectedNodesChanged" }
func (ImportsChanged) Kind() string                     { return "importsChanged" }
func (FileURLChanged) Kind() string                     { return "fileUrlChanged" }
func (CurrentStateChanged) Kind() string                { return "currentStateChanged" }
func (CurrentTimelineChanged) Kind() string             { return "currentTimelineChanged" }
func (CustomNotification) Kind() string                 { return "customNotification" }
func (RewriterBeginTransaction) Kind() string           { return "rewriterBeginTransaction" }
func (RewriterEndTransaction) Kind() string             { return "rewriterEndTransaction" }
func (InstancePropertiesChanged) Kind() string          { return "instancePropertiesChanged" }
func (InstanceInformationsChanged) Kind() string        { return "instanceInformationsChanged" }
func (InstancesCompleted) Kind() string                 { return "instancesCompleted" }
func (InstancesRenderImageChanged) Kind() string        { return "instancesRenderImageChanged" }
func (InstancesPreviewImageChanged) Kind() string       { return "instancesPreviewImageChanged" }
func (InstancesChildrenChanged) Kind() string           { return "instancesChildrenChanged" }
func (InstanceErrorChanged) Kind() string               { return "instanceErrorChanged" }
func (InstancesToken) Kind() string                     { return "instancesToken" }
func (View3DAction) Kind() string                       { return "view3DAction" }
func (DragStarted) Kind() string                        { return "dragStarted" }
func (DragEnded) Kind() string                          { return "dragEnded" }
func (ActiveScene3DChanged) Kind() string               { return "activeScene3DChanged" }
func (Edit3DToolStateChanged) Kind() string             { return "edit3DToolStateChanged" }
func (RenderImage3DChanged) Kind() string               { return "renderImage3DChanged" }
func (ModelNodePreviewImageChanged) Kind() string       { return "modelNodePreviewImageChanged" }
func (Import3DSupportChanged) Kind() string             { return "import3DSupportChanged" }
func (NodeAtPositionReady) Kind() string                { return "nodeAtPositionReady" }
