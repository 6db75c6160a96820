package model

import "sort"

// NodeSourceType tags the meaning of a node's source string.
type NodeSourceType int

const (
	NoSource NodeSourceType = iota
	NodeWithoutSource
	NodeWithComponentSource
	NodeWithCustomParserSource
)

// propertyRef addresses a property by owner node and name. owner is
// invalidID when the reference is empty.
type propertyRef struct {
	owner int32
	name  string
}

const invalidID int32 = -1

var noProperty = propertyRef{owner: invalidID}

func (r propertyRef) isValid() bool {
	return r.owner != invalidID
}

type internalNode struct {
	internalID int32
	typeName   string
	major      int
	minor      int
	id         string
	valid      bool

	propertyNames []string
	properties    map[string]*internalProperty
	auxiliary     map[AuxiliaryDataKey]interface{}

	nodeSource           string
	sourceType           NodeSourceType
	behaviorPropertyName string
	scriptFunctions      []string

	parent propertyRef
}

func newInternalNode(internalID int32, typeName string, major, minor int) *internalNode {
	return &internalNode{
		internalID: internalID,
		typeName:   typeName,
		major:      major,
		minor:      minor,
		valid:      true,
		properties: make(map[string]*internalProperty),
		auxiliary:  make(map[AuxiliaryDataKey]interface{}),
		parent:     noProperty,
	}
}

func (n *internalNode) property(name string) *internalProperty {
	return n.properties[name]
}

func (n *internalNode) hasProperty(name string) bool {
	_, exists := n.properties[name]
	return exists
}

func (n *internalNode) addProperty(name string, kind PropertyKind) *internalProperty {
	if p, exists := n.properties[name]; exists {
		return p
	}
	p := newInternalProperty(n.internalID, name, kind)
	n.properties[name] = p
	n.propertyNames = append(n.propertyNames, name)
	return p
}

func (n *internalNode) removeProperty(name string) {
	if _, exists := n.properties[name]; !exists {
		return
	}
	delete(n.properties, name)
	for i, pn := range n.propertyNames {
		if pn == name {
			n.propertyNames = append(n.propertyNames[:i], n.propertyNames[i+1:]...)
			break
		}
	}
}

// orderedProperties returns the properties in insertion order.
func (n *internalNode) orderedProperties() []*internalProperty {
	props := make([]*internalProperty, 0, len(n.propertyNames))
	for _, name := range n.propertyNames {
		props = append(props, n.properties[name])
	}
	return props
}

// childIDs returns the direct children over all node properties, in
// property order and then list order.
func (n *internalNode) childIDs() []int32 {
	var ids []int32
	for _, p := range n.orderedProperties() {
		if p.kind.IsNodeAbstract() {
			ids = append(ids, p.children...)
		}
	}
	return ids
}

func (n *internalNode) auxiliaryKeys() []AuxiliaryDataKey {
	keys := make([]AuxiliaryDataKey, 0, len(n.auxiliary))
	for k := range n.auxiliary {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}
