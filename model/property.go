package model

import (
	"fmt"
	"strings"
)

// AbstractProperty is a handle to a named property of a node. The
// property need not exist; Exists tells whether it does.
type AbstractProperty struct {
	m     *Model
	owner int32
	name  string
	view  View
}

func (m *Model) propertyHandle(owner int32, name string, v View) AbstractProperty {
	return AbstractProperty{m: m, owner: owner, name: name, view: v}
}

func (m *Model) nodeAbstractHandle(ref propertyRef, v View) NodeAbstractProperty {
	if !ref.isValid() {
		return NodeAbstractProperty{}
	}
	return NodeAbstractProperty{m.propertyHandle(ref.owner, ref.name, v)}
}

func (p AbstractProperty) internal() *internalProperty {
	if p.m == nil {
		return nil
	}
	n := p.m.liveNode(p.owner)
	if n == nil {
		return nil
	}
	return n.property(p.name)
}

func (p AbstractProperty) Name() string {
	return p.name
}

// ParentModelNode returns the node owning the property.
func (p AbstractProperty) ParentModelNode() ModelNode {
	if p.m == nil {
		return ModelNode{}
	}
	return p.m.nodeHandle(p.owner, p.view)
}

// IsValid reports whether the owner node is alive and the name usable.
// The property itself may not exist.
func (p AbstractProperty) IsValid() bool {
	return p.m != nil && p.name != "" && p.m.liveNode(p.owner) != nil
}

func (p AbstractProperty) Exists() bool {
	return p.internal() != nil
}

func (p AbstractProperty) Kind() PropertyKind {
	if ip := p.internal(); ip != nil {
		return ip.kind
	}
	return InvalidPropertyKind
}

func (p AbstractProperty) Equal(other AbstractProperty) bool {
	return p.m == other.m && p.owner == other.owner && p.name == other.name
}

func (p AbstractProperty) String() string {
	return fmt.Sprintf("%s.%s", p.ParentModelNode(), p.name)
}

func (p AbstractProperty) IsVariantProperty() bool { return p.Kind() == VariantPropertyKind }
func (p AbstractProperty) IsBindingProperty() bool { return p.Kind() == BindingPropertyKind }
func (p AbstractProperty) IsSignalHandlerProperty() bool {
	return p.Kind() == SignalHandlerPropertyKind
}
func (p AbstractProperty) IsSignalDeclarationProperty() bool {
	return p.Kind() == SignalDeclarationPropertyKind
}
func (p AbstractProperty) IsNodeProperty() bool         { return p.Kind() == NodePropertyKind }
func (p AbstractProperty) IsNodeListProperty() bool     { return p.Kind() == NodeListPropertyKind }
func (p AbstractProperty) IsNodeAbstractProperty() bool { return p.Kind().IsNodeAbstract() }

// IsDynamic reports whether the property is declared in the document.
func (p AbstractProperty) IsDynamic() bool {
	return p.DynamicTypeName() != ""
}

func (p AbstractProperty) DynamicTypeName() string {
	if ip := p.internal(); ip != nil {
		return ip.dynamicType
	}
	return ""
}

func (p AbstractProperty) ToVariantProperty() VariantProperty { return VariantProperty{p} }
func (p AbstractProperty) ToBindingProperty() BindingProperty { return BindingProperty{p} }
func (p AbstractProperty) ToSignalHandlerProperty() SignalHandlerProperty {
	return SignalHandlerProperty{p}
}
func (p AbstractProperty) ToSignalDeclarationProperty() SignalDeclarationProperty {
	return SignalDeclarationProperty{p}
}
func (p AbstractProperty) ToNodeAbstractProperty() NodeAbstractProperty {
	return NodeAbstractProperty{p}
}
func (p AbstractProperty) ToNodeProperty() NodeProperty {
	return NodeProperty{NodeAbstractProperty{p}}
}
func (p AbstractProperty) ToNodeListProperty() NodeListProperty {
	return NodeListProperty{NodeAbstractProperty{p}}
}

// VariantProperty holds a literal value.
type VariantProperty struct {
	AbstractProperty
}

// Value returns the value, or nil if the property is not a variant.
func (p VariantProperty) Value() interface{} {
	if ip := p.internal(); ip != nil && ip.kind == VariantPropertyKind {
		return ip.value
	}
	return nil
}

// SetValue sets the value, replacing a property of another kind. A nil
// value is ignored.
func (p VariantProperty) SetValue(value interface{}) {
	p.SetDynamicTypeNameAndValue("", value)
}

func (p VariantProperty) SetDynamicTypeNameAndValue(typeName string, value interface{}) {
	if p.m == nil {
		return
	}
	defer p.m.lockWrite("SetValue").unlock()
	p.m.setVariantProperty(p.owner, p.name, value, typeName)
}

// BindingProperty holds an expression.
type BindingProperty struct {
	AbstractProperty
}

func (p BindingProperty) Expression() string {
	if ip := p.internal(); ip != nil && ip.kind == BindingPropertyKind {
		return ip.text
	}
	return ""
}

func (p BindingProperty) SetExpression(expression string) {
	p.SetDynamicTypeNameAndExpression("", expression)
}

func (p BindingProperty) SetDynamicTypeNameAndExpression(typeName, expression string) {
	if p.m == nil {
		return
	}
	defer p.m.lockWrite("SetExpression").unlock()
	p.m.setBindingProperty(p.owner, p.name, expression, typeName)
}

// ResolveToModelNode returns the node an expression consisting of a
// single id (or "parent") refers to.
func (p BindingProperty) ResolveToModelNode() ModelNode {
	return p.resolveID(strings.TrimSpace(p.Expression()))
}

func (p BindingProperty) resolveID(id string) ModelNode {
	if !p.IsValid() || id == "" {
		return ModelNode{}
	}
	if id == "parent" {
		return p.ParentModelNode().Parent()
	}
	return p.m.NodeForID(p.view, id)
}

// ResolveToModelNodeList resolves a list expression "[a, b]" or a single
// id to nodes. Unknown ids are skipped.
func (p BindingProperty) ResolveToModelNodeList() []ModelNode {
	expr := strings.TrimSpace(p.Expression())
	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		expr = expr[1 : len(expr)-1]
	}
	var nodes []ModelNode
	for _, part := range strings.Split(expr, ",") {
		if node := p.resolveID(strings.TrimSpace(part)); node.IsValid() {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// ResolveToProperty resolves "id.property" to the named property.
func (p BindingProperty) ResolveToProperty() AbstractProperty {
	expr := strings.TrimSpace(p.Expression())
	i := strings.LastIndexByte(expr, '.')
	if i <= 0 || i == len(expr)-1 {
		return AbstractProperty{}
	}
	node := p.resolveID(expr[:i])
	if !node.IsValid() {
		return AbstractProperty{}
	}
	return node.Property(expr[i+1:])
}

// SignalHandlerProperty holds the source of an "onSomething" handler.
type SignalHandlerProperty struct {
	AbstractProperty
}

func (p SignalHandlerProperty) Source() string {
	if ip := p.internal(); ip != nil && ip.kind == SignalHandlerPropertyKind {
		return ip.text
	}
	return ""
}

func (p SignalHandlerProperty) SetSource(source string) {
	if p.m == nil {
		return
	}
	defer p.m.lockWrite("SetSource").unlock()
	p.m.setSignalHandlerProperty(p.owner, p.name, source)
}

// SignalDeclarationProperty holds the parameter signature of a signal
// declared in the document.
type SignalDeclarationProperty struct {
	AbstractProperty
}

func (p SignalDeclarationProperty) Signature() string {
	if ip := p.internal(); ip != nil && ip.kind == SignalDeclarationPropertyKind {
		return ip.text
	}
	return ""
}

func (p SignalDeclarationProperty) SetSignature(signature string) {
	if p.m == nil {
		return
	}
	defer p.m.lockWrite("SetSignature").unlock()
	p.m.setSignalDeclarationProperty(p.owner, p.name, signature)
}

// NodeAbstractProperty is a property owning child nodes, either a single
// node or a list.
type NodeAbstractProperty struct {
	AbstractProperty
}

func (p NodeAbstractProperty) children() []int32 {
	if ip := p.internal(); ip != nil && ip.kind.IsNodeAbstract() {
		return ip.children
	}
	return nil
}

// ReparentHere moves node into this property. An existing property keeps
// its kind; a new one becomes a single node property.
func (p NodeAbstractProperty) ReparentHere(node ModelNode) {
	p.reparentHere(node, p.IsNodeListProperty(), "")
}

func (p NodeAbstractProperty) reparentHere(node ModelNode, asList bool, dynamicType string) {
	if p.m == nil || node.m != p.m {
		return
	}
	defer p.m.lockWrite("ReparentHere").unlock()
	p.m.reparentNode(p.owner, p.name, node.internalID, asList, dynamicType)
}

func (p NodeAbstractProperty) Count() int {
	return len(p.children())
}

func (p NodeAbstractProperty) IsEmpty() bool {
	return p.Count() == 0
}

func (p NodeAbstractProperty) IndexOf(node ModelNode) int {
	if node.m != p.m {
		return -1
	}
	for i, id := range p.children() {
		if id == node.internalID {
			return i
		}
	}
	return -1
}

func (p NodeAbstractProperty) DirectSubNodes() []ModelNode {
	if p.m == nil {
		return nil
	}
	return p.m.handles(p.children(), p.view)
}

// AllSubNodes returns the children and all their descendants.
func (p NodeAbstractProperty) AllSubNodes() []ModelNode {
	var nodes []ModelNode
	for _, child := range p.DirectSubNodes() {
		nodes = append(nodes, child)
		nodes = append(nodes, child.AllSubModelNodes()...)
	}
	return nodes
}

// NodeProperty owns at most one node.
type NodeProperty struct {
	NodeAbstractProperty
}

func (p NodeProperty) ModelNode() ModelNode {
	if children := p.children(); len(children) > 0 {
		return p.m.nodeHandle(children[0], p.view)
	}
	return ModelNode{}
}

// SetModelNode makes node the single child, destroying a previous one.
func (p NodeProperty) SetModelNode(node ModelNode) {
	p.reparentHere(node, false, "")
}

func (p NodeProperty) SetDynamicTypeNameAndsetModelNode(typeName string, node ModelNode) {
	p.reparentHere(node, false, typeName)
}

func (p NodeProperty) ReparentHere(node ModelNode) {
	p.reparentHere(node, false, "")
}

// NodeListProperty owns an ordered list of nodes.
type NodeListProperty struct {
	NodeAbstractProperty
}

func (p NodeListProperty) ToModelNodeList() []ModelNode {
	return p.DirectSubNodes()
}

// At returns the child at index i, or an invalid node.
func (p NodeListProperty) At(i int) ModelNode {
	children := p.children()
	if i < 0 || i >= len(children) {
		return ModelNode{}
	}
	return p.m.nodeHandle(children[i], p.view)
}

// ReparentHere appends node to the list.
func (p NodeListProperty) ReparentHere(node ModelNode) {
	p.reparentHere(node, true, "")
}

// Slide moves the child at from to index to.
func (p NodeListProperty) Slide(from, to int) {
	if p.m == nil {
		return
	}
	defer p.m.lockWrite("Slide").unlock()
	p.m.changeNodeOrder(p.owner, p.name, from, to)
}
