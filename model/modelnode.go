package model

import (
	"fmt"
	"strings"
)

// ModelNode is a handle to a node of a Model, scoped to the view that
// obtained it. Handles stay usable after the node is removed: reads
// return zero values and writes do nothing.
type ModelNode struct {
	m          *Model
	internalID int32
	view       View
}

func (n ModelNode) internal() *internalNode {
	if n.m == nil {
		return nil
	}
	return n.m.liveNode(n.internalID)
}

// IsValid reports whether the node is still part of its model.
func (n ModelNode) IsValid() bool {
	return n.internal() != nil
}

// InternalID returns the stable internal id, or -1 for the zero handle.
// It is available even after the node was removed.
func (n ModelNode) InternalID() int32 {
	if n.m == nil {
		return invalidID
	}
	return n.internalID
}

func (n ModelNode) Model() *Model {
	return n.m
}

// View returns the view the handle is scoped to.
func (n ModelNode) View() View {
	return n.view
}

// Equal reports whether both handles refer to the same node of the same
// model.
func (n ModelNode) Equal(other ModelNode) bool {
	return n.m == other.m && n.InternalID() == other.InternalID()
}

func (n ModelNode) String() string {
	in := n.internal()
	if in == nil {
		return fmt.Sprintf("ModelNode(invalid %d)", n.InternalID())
	}
	if in.id == "" {
		return fmt.Sprintf("ModelNode(%s %d)", in.typeName, in.internalID)
	}
	return fmt.Sprintf("ModelNode(%s %s %d)", in.typeName, in.id, in.internalID)
}

func (n ModelNode) Type() string {
	if in := n.internal(); in != nil {
		return in.typeName
	}
	return ""
}

// SimplifiedTypeName returns the type name without its module prefix.
func (n ModelNode) SimplifiedTypeName() string {
	t := n.Type()
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		return t[i+1:]
	}
	return t
}

func (n ModelNode) MajorVersion() int {
	if in := n.internal(); in != nil {
		return in.major
	}
	return 0
}

func (n ModelNode) MinorVersion() int {
	if in := n.internal(); in != nil {
		return in.minor
	}
	return 0
}

func (n ModelNode) ID() string {
	if in := n.internal(); in != nil {
		return in.id
	}
	return ""
}

func (n ModelNode) HasID() bool {
	return n.ID() != ""
}

// SetID changes the id. Invalid or already used ids are ignored; the
// empty string clears the id.
func (n ModelNode) SetID(id string) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("SetID").unlock()
	n.m.changeNodeID(n.internalID, id)
}

// ChangeType changes the type of the node, keeping its properties.
func (n ModelNode) ChangeType(typeName string, major, minor int) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("ChangeType").unlock()
	n.m.changeNodeType(n.internalID, typeName, major, minor)
}

func (n ModelNode) Property(name string) AbstractProperty {
	if n.m == nil {
		return AbstractProperty{}
	}
	return n.m.propertyHandle(n.internalID, name, n.view)
}

func (n ModelNode) VariantProperty(name string) VariantProperty {
	return VariantProperty{n.Property(name)}
}

func (n ModelNode) BindingProperty(name string) BindingProperty {
	return BindingProperty{n.Property(name)}
}

func (n ModelNode) SignalHandlerProperty(name string) SignalHandlerProperty {
	return SignalHandlerProperty{n.Property(name)}
}

func (n ModelNode) SignalDeclarationProperty(name string) SignalDeclarationProperty {
	return SignalDeclarationProperty{n.Property(name)}
}

func (n ModelNode) NodeAbstractProperty(name string) NodeAbstractProperty {
	return NodeAbstractProperty{n.Property(name)}
}

func (n ModelNode) NodeProperty(name string) NodeProperty {
	return NodeProperty{NodeAbstractProperty{n.Property(name)}}
}

func (n ModelNode) NodeListProperty(name string) NodeListProperty {
	return NodeListProperty{NodeAbstractProperty{n.Property(name)}}
}

// DefaultNodeListProperty returns the list property children are added to
// when no property is named, as reported by the meta info.
func (n ModelNode) DefaultNodeListProperty() NodeListProperty {
	if n.m == nil {
		return NodeListProperty{}
	}
	return n.NodeListProperty(n.m.metaInfo.DefaultPropertyName(n.Type()))
}

// Properties returns the existing properties in insertion order.
func (n ModelNode) Properties() []AbstractProperty {
	in := n.internal()
	if in == nil {
		return nil
	}
	props := make([]AbstractProperty, 0, len(in.propertyNames))
	for _, name := range in.propertyNames {
		props = append(props, n.Property(name))
	}
	return props
}

func (n ModelNode) PropertyNames() []string {
	if in := n.internal(); in != nil {
		return append([]string(nil), in.propertyNames...)
	}
	return nil
}

func (n ModelNode) HasProperty(name string) bool {
	in := n.internal()
	return in != nil && in.hasProperty(name)
}

func (n ModelNode) VariantProperties() []VariantProperty {
	var props []VariantProperty
	for _, p := range n.Properties() {
		if p.IsVariantProperty() {
			props = append(props, p.ToVariantProperty())
		}
	}
	return props
}

func (n ModelNode) BindingProperties() []BindingProperty {
	var props []BindingProperty
	for _, p := range n.Properties() {
		if p.IsBindingProperty() {
			props = append(props, p.ToBindingProperty())
		}
	}
	return props
}

func (n ModelNode) NodeAbstractProperties() []NodeAbstractProperty {
	var props []NodeAbstractProperty
	for _, p := range n.Properties() {
		if p.IsNodeAbstractProperty() {
			props = append(props, p.ToNodeAbstractProperty())
		}
	}
	return props
}

// RemoveProperty removes a property and, for node properties, the nodes
// it owns.
func (n ModelNode) RemoveProperty(name string) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("RemoveProperty").unlock()
	n.m.removeProperty(n.internalID, name)
}

// ParentProperty returns the property holding this node. It is invalid
// for the root and for nodes not attached to the tree.
func (n ModelNode) ParentProperty() NodeAbstractProperty {
	in := n.internal()
	if in == nil {
		return NodeAbstractProperty{}
	}
	return n.m.nodeAbstractHandle(in.parent, n.view)
}

func (n ModelNode) HasParentProperty() bool {
	in := n.internal()
	return in != nil && in.parent.isValid()
}

// Parent returns the node owning the parent property.
func (n ModelNode) Parent() ModelNode {
	return n.ParentProperty().ParentModelNode()
}

func (n ModelNode) IsRootNode() bool {
	return n.IsValid() && n.internalID == n.m.root
}

// IsAncestorOf reports whether n is a strict ancestor of node.
func (n ModelNode) IsAncestorOf(node ModelNode) bool {
	if !n.IsValid() || !node.IsValid() || n.m != node.m || n.internalID == node.internalID {
		return false
	}
	return n.m.isAncestor(n.internalID, node.internalID)
}

// DirectSubModelNodes returns the children over all node properties.
func (n ModelNode) DirectSubModelNodes() []ModelNode {
	in := n.internal()
	if in == nil {
		return nil
	}
	return n.m.handles(in.childIDs(), n.view)
}

// AllSubModelNodes returns all descendants in depth-first order, parents
// before their children.
func (n ModelNode) AllSubModelNodes() []ModelNode {
	var nodes []ModelNode
	for _, child := range n.DirectSubModelNodes() {
		nodes = append(nodes, child)
		nodes = append(nodes, child.AllSubModelNodes()...)
	}
	return nodes
}

// Destroy removes the node and its subtree. The root node cannot be
// destroyed.
func (n ModelNode) Destroy() {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("Destroy").unlock()
	n.m.removeNode(n.internalID)
}

// AuxiliaryData returns the value stored under key.
func (n ModelNode) AuxiliaryData(key AuxiliaryDataKey) (interface{}, bool) {
	in := n.internal()
	if in == nil {
		return nil, false
	}
	value, exists := in.auxiliary[key]
	return value, exists
}

func (n ModelNode) HasAuxiliaryData(key AuxiliaryDataKey) bool {
	_, exists := n.AuxiliaryData(key)
	return exists
}

// SetAuxiliaryData stores value under key. A nil value removes the key.
func (n ModelNode) SetAuxiliaryData(key AuxiliaryDataKey, value interface{}) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("SetAuxiliaryData").unlock()
	n.m.setAuxiliaryData(n.internalID, key, value)
}

func (n ModelNode) RemoveAuxiliaryData(key AuxiliaryDataKey) {
	n.SetAuxiliaryData(key, nil)
}

// AuxiliaryDataList returns all auxiliary data ordered by key.
func (n ModelNode) AuxiliaryDataList() []AuxiliaryData {
	in := n.internal()
	if in == nil {
		return nil
	}
	list := make([]AuxiliaryData, 0, len(in.auxiliary))
	for _, key := range in.auxiliaryKeys() {
		list = append(list, AuxiliaryData{Key: key, Value: in.auxiliary[key]})
	}
	return list
}

// IsLocked reports whether the node or one of its ancestors is locked.
func (n ModelNode) IsLocked() bool {
	for node := n; node.IsValid(); node = node.Parent() {
		if locked, _ := node.AuxiliaryData(LockedKey); locked == true {
			return true
		}
	}
	return false
}

func (n ModelNode) NodeSource() string {
	if in := n.internal(); in != nil {
		return in.nodeSource
	}
	return ""
}

func (n ModelNode) NodeSourceType() NodeSourceType {
	if in := n.internal(); in != nil {
		return in.sourceType
	}
	return NoSource
}

func (n ModelNode) SetNodeSource(source string, sourceType NodeSourceType) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("SetNodeSource").unlock()
	n.m.setNodeSource(n.internalID, source, sourceType)
}

func (n ModelNode) BehaviorPropertyName() string {
	if in := n.internal(); in != nil {
		return in.behaviorPropertyName
	}
	return ""
}

func (n ModelNode) ScriptFunctions() []string {
	if in := n.internal(); in != nil {
		return append([]string(nil), in.scriptFunctions...)
	}
	return nil
}

func (n ModelNode) SetScriptFunctions(functions []string) {
	if n.m == nil {
		return
	}
	defer n.m.lockWrite("SetScriptFunctions").unlock()
	n.m.setScriptFunctions(n.internalID, functions)
}

func (n ModelNode) IsSelected() bool {
	if !n.IsValid() {
		return false
	}
	for _, id := range n.m.selection {
		if id == n.internalID {
			return true
		}
	}
	return false
}

// IsGraphical reports whether the meta info knows the type as a visual
// item.
func (n ModelNode) IsGraphical() bool {
	return n.IsValid() && n.m.metaInfo.IsGraphicalItem(n.Type())
}

// IsSubclassOf asks the meta info whether the node's type derives from
// typeName.
func (n ModelNode) IsSubclassOf(typeName string) bool {
	return n.IsValid() && n.m.metaInfo.IsSubclassOf(n.Type(), typeName)
}
