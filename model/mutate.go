package model

import (
	"reflect"
	"sort"
)

// NodeTemplate describes a node to create.
type NodeTemplate struct {
	TypeName      string
	Major         int
	Minor         int
	Properties    []PropertyValue
	AuxiliaryData []AuxiliaryData
	NodeSource    string
	SourceType    NodeSourceType
	// BehaviorPropertyName names the property a Behavior node animates.
	BehaviorPropertyName string
}

// PropertyValue is an initial variant property of a new node.
type PropertyValue struct {
	Name  string
	Value interface{}
}

func valuesEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// The methods in this file are the only places that change the node
// arena. They expect the caller to hold the write guard and treat every
// precondition failure as a silent no-op.

func (m *Model) createNode(t NodeTemplate, isRoot bool) int32 {
	if t.TypeName == "" {
		m.logger.Debug("model: rejected node without type name")
		return invalidID
	}

	internalID := int32(0)
	if !isRoot {
		internalID = m.nextInternalID
		m.nextInternalID++
	}

	n := newInternalNode(internalID, t.TypeName, t.Major, t.Minor)
	n.nodeSource = t.NodeSource
	n.sourceType = t.SourceType
	n.behaviorPropertyName = t.BehaviorPropertyName
	m.nodes[internalID] = n

	var names []string
	for _, pv := range t.Properties {
		if pv.Name == "" || pv.Name == "id" || pv.Value == nil || n.hasProperty(pv.Name) {
			continue
		}
		n.addProperty(pv.Name, VariantPropertyKind).value = pv.Value
		names = append(names, pv.Name)
	}
	for _, aux := range t.AuxiliaryData {
		if aux.Value != nil {
			n.auxiliary[aux.Key] = aux.Value
		}
	}

	m.notify(normalViewsLast, func(v View) Notification {
		return NodeCreated{Node: m.nodeHandle(internalID, v)}
	})
	if len(names) > 0 {
		m.notify(normalViewsLast, func(v View) Notification {
			props := make([]VariantProperty, 0, len(names))
			for _, name := range names {
				props = append(props, VariantProperty{m.propertyHandle(internalID, name, v)})
			}
			return VariantPropertiesChanged{Properties: props, Flags: PropertiesAdded}
		})
	}
	return internalID
}

// subtreeIDs returns internalID and all its descendants, children before
// their parents.
func (m *Model) subtreeIDs(internalID int32) []int32 {
	var ids []int32
	var walk func(id int32)
	walk = func(id int32) {
		n := m.liveNode(id)
		if n == nil {
			return
		}
		for _, child := range n.childIDs() {
			walk(child)
		}
		ids = append(ids, id)
	}
	walk(internalID)
	return ids
}

func (m *Model) unregisterNode(internalID int32) {
	n := m.nodes[internalID]
	if n == nil {
		return
	}
	if n.id != "" && m.ids[n.id] == internalID {
		delete(m.ids, n.id)
	}
	n.valid = false
	n.parent = noProperty
	delete(m.nodes, internalID)
}

// isAncestor reports whether ancestor is descendant itself or one of its
// parents.
func (m *Model) isAncestor(ancestor, descendant int32) bool {
	for id := descendant; id != invalidID; {
		if id == ancestor {
			return true
		}
		n := m.liveNode(id)
		if n == nil {
			return false
		}
		id = n.parent.owner
	}
	return false
}

func (m *Model) removeNode(internalID int32) {
	n := m.liveNode(internalID)
	if n == nil || internalID == m.root {
		return
	}

	m.notify(instanceViewLast, func(v View) Notification {
		return NodeAboutToBeRemoved{Node: m.nodeHandle(internalID, v)}
	})

	subtree := m.subtreeIDs(internalID)
	m.deselect(subtree)

	oldParent := n.parent
	for _, id := range subtree {
		m.unregisterNode(id)
	}

	flags := NoAdditionalChanges
	if owner := m.liveNode(oldParent.owner); oldParent.isValid() && owner != nil {
		if p := owner.property(oldParent.name); p != nil {
			p.removeChild(internalID)
			if p.isEmpty() {
				owner.removeProperty(p.name)
				flags |= EmptyPropertiesRemoved
			}
		}
	}

	m.notify(normalViewsLast, func(v View) Notification {
		return NodeRemoved{
			Node:           m.nodeHandle(internalID, v),
			ParentProperty: m.nodeAbstractHandle(oldParent, v),
			Flags:          flags,
		}
	})
}

func (m *Model) reparentNode(parentID int32, name string, childID int32, asList bool, dynamicType string) {
	parent, child := m.liveNode(parentID), m.liveNode(childID)
	if parent == nil || child == nil || name == "" || name == "id" || childID == m.root {
		return
	}
	if m.isAncestor(childID, parentID) {
		m.logger.Debug("model: rejected reparenting into own subtree",
			"node", childID, "parent", parentID, "property", name)
		return
	}

	kind := NodePropertyKind
	if asList {
		kind = NodeListPropertyKind
	}

	if p := parent.property(name); p != nil {
		if !p.kind.IsNodeAbstract() {
			m.removeProperty(parentID, name)
		} else {
			if p.kind != kind {
				return
			}
			if dynamicType != "" && p.dynamicType != dynamicType {
				return
			}
			if kind == NodePropertyKind && len(p.children) == 1 {
				if p.children[0] == childID {
					return
				}
				if m.isAncestor(p.children[0], childID) {
					m.logger.Debug("model: rejected replacing a node property by a node it contains",
						"node", childID, "parent", parentID, "property", name)
					return
				}
				// A node property owns its single child exclusively.
				m.removeNode(p.children[0])
			}
		}
	}
	if child = m.liveNode(childID); child == nil {
		return
	}
	if parent = m.liveNode(parentID); parent == nil {
		return
	}

	flags := NoAdditionalChanges
	p := parent.property(name)
	if p == nil {
		p = parent.addProperty(name, kind)
		p.dynamicType = dynamicType
		flags |= PropertiesAdded
	}

	oldRef := child.parent
	newRef := propertyRef{owner: parentID, name: name}

	m.notify(instanceViewLast, func(v View) Notification {
		return NodeAboutToBeReparented{
			Node:              m.nodeHandle(childID, v),
			NewParentProperty: m.nodeAbstractHandle(newRef, v),
			OldParentProperty: m.nodeAbstractHandle(oldRef, v),
			Flags:             flags,
		}
	})

	var oldProperty *internalProperty
	var oldOwner *internalNode
	if oldRef.isValid() {
		if oldOwner = m.liveNode(oldRef.owner); oldOwner != nil {
			if oldProperty = oldOwner.property(oldRef.name); oldProperty != nil {
				oldProperty.removeChild(childID)
			}
		}
	}
	p.addChild(childID)
	child.parent = newRef

	if oldProperty != nil && oldRef != newRef && oldProperty.isEmpty() {
		oldOwner.removeProperty(oldRef.name)
		flags |= EmptyPropertiesRemoved
	}

	m.notify(instanceViewLast, func(v View) Notification {
		return NodeReparented{
			Node:              m.nodeHandle(childID, v),
			NewParentProperty: m.nodeAbstractHandle(newRef, v),
			OldParentProperty: m.nodeAbstractHandle(oldRef, v),
			Flags:             flags,
		}
	})
}

// prepareProperty removes name from the node if it exists with another
// kind, and returns the property of the wanted kind, creating it if
// needed.
func (m *Model) prepareProperty(internalID int32, name string, kind PropertyKind) (*internalProperty, PropertyChangeFlags) {
	n := m.liveNode(internalID)
	if p := n.property(name); p != nil && p.kind != kind {
		m.removeProperty(internalID, name)
	}
	if p := n.property(name); p != nil {
		return p, NoAdditionalChanges
	}
	return n.addProperty(name, kind), PropertiesAdded
}

func (m *Model) setVariantProperty(internalID int32, name string, value interface{}, dynamicType string) {
	n := m.liveNode(internalID)
	if n == nil || name == "" || name == "id" || value == nil {
		return
	}
	if p := n.property(name); p != nil && p.kind == VariantPropertyKind &&
		p.dynamicType == dynamicType && valuesEqual(p.value, value) {
		return
	}

	p, flags := m.prepareProperty(internalID, name, VariantPropertyKind)
	p.value = value
	p.dynamicType = dynamicType

	m.notify(normalViewsLast, func(v View) Notification {
		return VariantPropertiesChanged{
			Properties: []VariantProperty{{m.propertyHandle(internalID, name, v)}},
			Flags:      flags,
		}
	})
}

func (m *Model) setBindingProperty(internalID int32, name, expression, dynamicType string) {
	n := m.liveNode(internalID)
	if n == nil || name == "" || name == "id" || expression == "" {
		return
	}
	if p := n.property(name); p != nil && p.kind == BindingPropertyKind &&
		p.dynamicType == dynamicType && p.text == expression {
		return
	}

	p, flags := m.prepareProperty(internalID, name, BindingPropertyKind)

	m.notify(instanceViewLast, func(v View) Notification {
		return BindingPropertiesAboutToBeChanged{
			Properties: []BindingProperty{{m.propertyHandle(internalID, name, v)}},
		}
	})

	p.text = expression
	p.dynamicType = dynamicType

	m.notify(instanceViewLast, func(v View) Notification {
		return BindingPropertiesChanged{
			Properties: []BindingProperty{{m.propertyHandle(internalID, name, v)}},
			Flags:      flags,
		}
	})
}

func (m *Model) setSignalHandlerProperty(internalID int32, name, source string) {
	n := m.liveNode(internalID)
	if n == nil || name == "" || name == "id" || source == "" {
		return
	}
	if p := n.property(name); p != nil && p.kind == SignalHandlerPropertyKind && p.text == source {
		return
	}

	p, flags := m.prepareProperty(internalID, name, SignalHandlerPropertyKind)
	p.text = source

	m.notify(instanceViewLast, func(v View) Notification {
		return SignalHandlerPropertiesChanged{
			Properties: []SignalHandlerProperty{{m.propertyHandle(internalID, name, v)}},
			Flags:      flags,
		}
	})
}

func (m *Model) setSignalDeclarationProperty(internalID int32, name, signature string) {
	n := m.liveNode(internalID)
	if n == nil || name == "" || name == "id" || signature == "" {
		return
	}
	if p := n.property(name); p != nil && p.kind == SignalDeclarationPropertyKind && p.text == signature {
		return
	}

	p, flags := m.prepareProperty(internalID, name, SignalDeclarationPropertyKind)
	p.text = signature

	m.notify(instanceViewLast, func(v View) Notification {
		return SignalDeclarationPropertiesChanged{
			Properties: []SignalDeclarationProperty{{m.propertyHandle(internalID, name, v)}},
			Flags:      flags,
		}
	})
}

func (m *Model) removeProperty(internalID int32, name string) {
	n := m.liveNode(internalID)
	if n == nil || n.property(name) == nil {
		return
	}

	m.notify(instanceViewLast, func(v View) Notification {
		return PropertiesAboutToBeRemoved{
			Properties: []AbstractProperty{m.propertyHandle(internalID, name, v)},
		}
	})

	m.removePropertyWithoutNotification(n, name)

	m.notify(normalViewsLast, func(v View) Notification {
		return PropertiesRemoved{
			Properties: []AbstractProperty{m.propertyHandle(internalID, name, v)},
		}
	})
}

// removePropertyWithoutNotification drops a property and, for node
// properties, every node it owns.
func (m *Model) removePropertyWithoutNotification(n *internalNode, name string) {
	p := n.property(name)
	if p == nil {
		return
	}
	if p.kind.IsNodeAbstract() {
		var removed []int32
		for _, child := range p.children {
			removed = append(removed, m.subtreeIDs(child)...)
		}
		m.deselect(removed)
		for _, id := range removed {
			m.unregisterNode(id)
		}
	}
	n.removeProperty(name)
}

func (m *Model) changeNodeID(internalID int32, newID string) {
	n := m.liveNode(internalID)
	if n == nil || n.id == newID {
		return
	}
	if !IsValidID(newID) {
		m.logger.Debug("model: rejected invalid id", "id", newID)
		return
	}
	if newID != "" && m.idIsTaken(newID) {
		m.logger.Debug("model: rejected duplicate id", "id", newID)
		return
	}

	oldID := n.id
	if oldID != "" {
		delete(m.ids, oldID)
	}
	n.id = newID
	if newID != "" {
		m.ids[newID] = internalID
	}

	m.notify(instanceViewLast, func(v View) Notification {
		return NodeIDChanged{Node: m.nodeHandle(internalID, v), NewID: newID, OldID: oldID}
	})
}

func (m *Model) setSelectedNodes(ids []int32) {
	seen := make(map[int32]struct{}, len(ids))
	selection := make([]int32, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || m.liveNode(id) == nil {
			continue
		}
		seen[id] = struct{}{}
		selection = append(selection, id)
	}
	sort.Slice(selection, func(i, j int) bool { return selection[i] < selection[j] })

	if equalIDs(selection, m.selection) {
		return
	}

	old := m.selection
	m.selection = selection

	m.notify(instanceChanges, func(v View) Notification {
		return SelectedNodesChanged{Selected: m.handles(selection, v), LastSelected: m.handles(old, v)}
	})
}

// deselect drops ids from the selection, notifying if it changed.
func (m *Model) deselect(ids []int32) {
	if len(m.selection) == 0 || len(ids) == 0 {
		return
	}
	drop := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	remaining := make([]int32, 0, len(m.selection))
	for _, id := range m.selection {
		if _, dropped := drop[id]; !dropped {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) != len(m.selection) {
		m.setSelectedNodes(remaining)
	}
}

func equalIDs(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// setAuxiliaryData stores value under key; a nil value removes the key.
func (m *Model) setAuxiliaryData(internalID int32, key AuxiliaryDataKey, value interface{}) {
	n := m.liveNode(internalID)
	if n == nil {
		return
	}
	old, exists := n.auxiliary[key]
	if value == nil {
		if !exists {
			return
		}
		delete(n.auxiliary, key)
	} else {
		if exists && valuesEqual(old, value) {
			return
		}
		n.auxiliary[key] = value
	}

	m.notify(instanceViewLast, func(v View) Notification {
		return AuxiliaryDataChanged{Node: m.nodeHandle(internalID, v), Key: key, Value: value}
	})
}

func (m *Model) changeNodeType(internalID int32, typeName string, major, minor int) {
	n := m.liveNode(internalID)
	if n == nil || typeName == "" || (n.typeName == typeName && n.major == major && n.minor == minor) {
		return
	}
	n.typeName, n.major, n.minor = typeName, major, minor

	if internalID == m.root {
		m.notify(instanceViewLast, func(View) Notification {
			return RootNodeTypeChanged{TypeName: typeName, Major: major, Minor: minor}
		})
		return
	}
	m.notify(instanceViewLast, func(v View) Notification {
		return NodeTypeChanged{Node: m.nodeHandle(internalID, v), TypeName: typeName, Major: major, Minor: minor}
	})
}

func (m *Model) setNodeSource(internalID int32, source string, sourceType NodeSourceType) {
	n := m.liveNode(internalID)
	if n == nil || (n.nodeSource == source && n.sourceType == sourceType) {
		return
	}
	n.nodeSource = source
	n.sourceType = sourceType

	m.notify(instanceViewLast, func(v View) Notification {
		return NodeSourceChanged{Node: m.nodeHandle(internalID, v), NodeSource: source}
	})
}

func (m *Model) changeNodeOrder(ownerID int32, name string, from, to int) {
	n := m.liveNode(ownerID)
	if n == nil {
		return
	}
	p := n.property(name)
	if p == nil || !p.slide(from, to) {
		return
	}
	moved := p.children[to]

	m.notify(normalViewsLast, func(v View) Notification {
		return NodeOrderChanged{
			ListProperty: NodeListProperty{NodeAbstractProperty{m.propertyHandle(ownerID, name, v)}},
			Node:         m.nodeHandle(moved, v),
			OldIndex:     from,
		}
	})
}

func (m *Model) setScriptFunctions(internalID int32, functions []string) {
	n := m.liveNode(internalID)
	if n == nil || reflect.DeepEqual(n.scriptFunctions, functions) {
		return
	}
	n.scriptFunctions = append([]string(nil), functions...)

	m.notify(normalViewsLast, func(v View) Notification {
		return ScriptFunctionsChanged{Node: m.nodeHandle(internalID, v), Functions: append([]string(nil), functions...)}
	})
}

func (m *Model) changeImports(add, remove []Import) {
	var added, removed []Import
	for _, imp := range remove {
		if containsImport(m.imports, imp) && !containsImport(removed, imp) {
			removed = append(removed, imp)
		}
	}
	kept := m.imports[:0:0]
	for _, imp := range m.imports {
		if !containsImport(removed, imp) {
			kept = append(kept, imp)
		}
	}
	for _, imp := range add {
		if !containsImport(kept, imp) {
			kept = append(kept, imp)
			added = append(added, imp)
		}
	}
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	m.imports = kept

	m.notify(instanceViewLast, func(View) Notification {
		return ImportsChanged{Added: added, Removed: removed}
	})
}

func (m *Model) setFileURL(url string) {
	if m.fileURL == url {
		return
	}
	old := m.fileURL
	m.fileURL = url
	m.notify(instanceViewLast, func(View) Notification {
		return FileURLChanged{OldURL: old, NewURL: url}
	})
}

func (m *Model) setCurrentState(internalID int32) {
	if m.liveNode(internalID) == nil {
		internalID = invalidID
	}
	if internalID == m.currentState {
		return
	}
	m.currentState = internalID
	m.notify(instanceViewLast, func(v View) Notification {
		return CurrentStateChanged{Node: m.NodeForInternalID(v, internalID)}
	})
}

func (m *Model) setCurrentTimeline(internalID int32) {
	if m.liveNode(internalID) == nil {
		internalID = invalidID
	}
	if internalID == m.currentTimeline {
		return
	}
	m.currentTimeline = internalID
	m.notify(instanceViewLast, func(v View) Notification {
		return CurrentTimelineChanged{Node: m.NodeForInternalID(v, internalID)}
	})
}
