package model

// PropertyKind is the tag of a property.
type PropertyKind int

const (
	InvalidPropertyKind PropertyKind = iota
	VariantPropertyKind
	BindingPropertyKind
	SignalHandlerPropertyKind
	SignalDeclarationPropertyKind
	NodePropertyKind
	NodeListPropertyKind
)

func (k PropertyKind) String() string {
	switch k {
	case VariantPropertyKind:
		return "variant"
	case BindingPropertyKind:
		return "binding"
	case SignalHandlerPropertyKind:
		return "signalHandler"
	case SignalDeclarationPropertyKind:
		return "signalDeclaration"
	case NodePropertyKind:
		return "node"
	case NodeListPropertyKind:
		return "nodeList"
	default:
		return "invalid"
	}
}

// IsNodeAbstract reports whether properties of this kind own child nodes.
func (k PropertyKind) IsNodeAbstract() bool {
	return k == NodePropertyKind || k == NodeListPropertyKind
}

// internalProperty is one property slot. Which fields are meaningful depends
// on kind:
//
//   - variant: value
//   - binding: text is the expression
//   - signal handler: text is the handler source
//   - signal declaration: text is the parameter signature
//   - node, node list: children (at most one entry for node)
//
// dynamicType is set for properties declared in the document itself
// ("property int foo: 1").
type internalProperty struct {
	name        string
	owner       int32
	kind        PropertyKind
	value       interface{}
	text        string
	dynamicType string
	children    []int32
}

func newInternalProperty(owner int32, name string, kind PropertyKind) *internalProperty {
	return &internalProperty{name: name, owner: owner, kind: kind}
}

func (p *internalProperty) isEmpty() bool {
	switch p.kind {
	case NodePropertyKind, NodeListPropertyKind:
		return len(p.children) == 0
	case VariantPropertyKind:
		return p.value == nil
	case BindingPropertyKind, SignalHandlerPropertyKind, SignalDeclarationPropertyKind:
		return p.text == ""
	default:
		return true
	}
}

func (p *internalProperty) indexOf(child int32) int {
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	return -1
}

// addChild appends child; a node property holds at most one child, so the
// previous one is dropped from the slot. Callers remove it from the model
// first.
func (p *internalProperty) addChild(child int32) {
	if p.indexOf(child) >= 0 {
		return
	}
	if p.kind == NodePropertyKind {
		p.children = []int32{child}
		return
	}
	p.children = append(p.children, child)
}

func (p *internalProperty) removeChild(child int32) {
	if i := p.indexOf(child); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
}

// slide moves the child at from to to, shifting the others.
func (p *internalProperty) slide(from, to int) bool {
	if p.kind != NodeListPropertyKind || from == to ||
		from < 0 || to < 0 || from >= len(p.children) || to >= len(p.children) {
		return false
	}
	child := p.children[from]
	p.children = append(p.children[:from], p.children[from+1:]...)
	p.children = append(p.children[:to], append([]int32{child}, p.children[to:]...)...)
	return true
}
