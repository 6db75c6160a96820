package model

// CreateNode creates a node that is not yet part of the tree; reparent it
// to attach it. The returned handle is scoped to v. A template without a
// type name yields an invalid node.
func (m *Model) CreateNode(v View, t NodeTemplate) ModelNode {
	defer m.lockWrite("CreateNode").unlock()
	id := m.createNode(t, false)
	if id == invalidID {
		return ModelNode{}
	}
	return m.nodeHandle(id, v)
}

// SetSelectedNodes replaces the selection. Invalid and duplicate nodes are
// dropped; setting the current selection again does nothing.
func (m *Model) SetSelectedNodes(nodes []ModelNode) {
	ids := make([]int32, 0, len(nodes))
	for _, n := range nodes {
		if n.m == m {
			ids = append(ids, n.internalID)
		}
	}
	defer m.lockWrite("SetSelectedNodes").unlock()
	m.setSelectedNodes(ids)
}

func (m *Model) ClearSelectedNodes() {
	m.SetSelectedNodes(nil)
}

// ChangeImports adds and removes imports. Imports already present are not
// added twice and unknown imports are not removed.
func (m *Model) ChangeImports(add, remove []Import) {
	defer m.lockWrite("ChangeImports").unlock()
	m.changeImports(add, remove)
}

func (m *Model) SetFileURL(url string) {
	defer m.lockWrite("SetFileURL").unlock()
	m.setFileURL(url)
}

// SetCurrentStateNode activates a state; an invalid node selects the base
// state.
func (m *Model) SetCurrentStateNode(node ModelNode) {
	id := invalidID
	if node.m == m {
		id = node.internalID
	}
	defer m.lockWrite("SetCurrentStateNode").unlock()
	m.setCurrentState(id)
}

func (m *Model) SetCurrentTimeline(node ModelNode) {
	id := invalidID
	if node.m == m {
		id = node.internalID
	}
	defer m.lockWrite("SetCurrentTimeline").unlock()
	m.setCurrentTimeline(id)
}

// ChangeRootNodeType changes the type of the root node.
func (m *Model) ChangeRootNodeType(typeName string, major, minor int) {
	defer m.lockWrite("ChangeRootNodeType").unlock()
	m.changeNodeType(m.root, typeName, major, minor)
}

// The Emit methods below only fan out notifications; they change nothing
// in the graph and so do not take the write guard.

// EmitCustomNotification sends a CustomNotification to every view except
// sender.
func (m *Model) EmitCustomNotification(sender View, identifier string, nodes []ModelNode, data ...interface{}) {
	m.notify(instanceViewLast, func(v View) Notification {
		if v == sender {
			return nil
		}
		return CustomNotification{
			Sender:     sender,
			Identifier: identifier,
			Nodes:      m.rescope(nodes, v),
			Data:       data,
		}
	})
}

func (m *Model) EmitRewriterBeginTransaction() {
	m.notify(instanceViewLast, func(View) Notification { return RewriterBeginTransaction{} })
}

func (m *Model) EmitRewriterEndTransaction() {
	m.notify(instanceViewLast, func(View) Notification { return RewriterEndTransaction{} })
}

func (m *Model) rescope(nodes []ModelNode, v View) []ModelNode {
	scoped := make([]ModelNode, 0, len(nodes))
	for _, n := range nodes {
		if n.m == m {
			scoped = append(scoped, m.nodeHandle(n.internalID, v))
		}
	}
	return scoped
}

func (m *Model) emitNodes(op string, nodes []ModelNode, build func([]ModelNode) Notification) {
	defer m.lockFeedback(op).unlock()
	if len(nodes) == 0 {
		return
	}
	m.notify(instanceChanges, func(v View) Notification {
		return build(m.rescope(nodes, v))
	})
}

// EmitInstancePropertyChange reports property values the renderer
// changed on its own.
func (m *Model) EmitInstancePropertyChange(properties []PropertyPair) {
	defer m.lockFeedback("EmitInstancePropertyChange").unlock()
	if len(properties) == 0 {
		return
	}
	m.notify(instanceChanges, func(v View) Notification {
		scoped := make([]PropertyPair, 0, len(properties))
		for _, p := range properties {
			if p.Node.m == m {
				scoped = append(scoped, PropertyPair{Node: m.nodeHandle(p.Node.internalID, v), Name: p.Name})
			}
		}
		return InstancePropertiesChanged{Properties: scoped}
	})
}

// EmitInstanceInformationsChange reports changed geometry and other
// renderer side information.
func (m *Model) EmitInstanceInformationsChange(changes []InformationChange) {
	defer m.lockFeedback("EmitInstanceInformationsChange").unlock()
	if len(changes) == 0 {
		return
	}
	m.notify(instanceChanges, func(v View) Notification {
		scoped := make([]InformationChange, 0, len(changes))
		for _, c := range changes {
			if c.Node.m == m {
				scoped = append(scoped, InformationChange{Node: m.nodeHandle(c.Node.internalID, v), Names: c.Names})
			}
		}
		return InstanceInformationsChanged{Changes: scoped}
	})
}

func (m *Model) EmitInstancesCompleted(nodes []ModelNode) {
	m.emitNodes("EmitInstancesCompleted", nodes, func(n []ModelNode) Notification { return InstancesCompleted{Nodes: n} })
}

func (m *Model) EmitInstancesRenderImageChanged(nodes []ModelNode) {
	m.emitNodes("EmitInstancesRenderImageChanged", nodes, func(n []ModelNode) Notification { return InstancesRenderImageChanged{Nodes: n} })
}

func (m *Model) EmitInstancesPreviewImageChanged(nodes []ModelNode) {
	m.emitNodes("EmitInstancesPreviewImageChanged", nodes, func(n []ModelNode) Notification { return InstancesPreviewImageChanged{Nodes: n} })
}

func (m *Model) EmitInstancesChildrenChanged(nodes []ModelNode) {
	m.emitNodes("EmitInstancesChildrenChanged", nodes, func(n []ModelNode) Notification { return InstancesChildrenChanged{Nodes: n} })
}

func (m *Model) EmitInstanceErrorChange(nodes []ModelNode) {
	m.emitNodes("EmitInstanceErrorChange", nodes, func(n []ModelNode) Notification { return InstanceErrorChanged{Nodes: n} })
}

func (m *Model) EmitInstanceToken(token string, number int, nodes []ModelNode) {
	defer m.lockFeedback("EmitInstanceToken").unlock()
	m.notify(instanceChanges, func(v View) Notification {
		return InstancesToken{Token: token, Number: number, Nodes: m.rescope(nodes, v)}
	})
}

func (m *Model) EmitView3DAction(action string, value interface{}) {
	defer m.lockFeedback("EmitView3DAction").unlock()
	m.notify(instanceChanges, func(View) Notification { return View3DAction{Action: action, Value: value} })
}

func (m *Model) EmitDragStarted(data map[string]interface{}) {
	defer m.lockFeedback("EmitDragStarted").unlock()
	m.notify(instanceChanges, func(View) Notification { return DragStarted{Data: data} })
}

func (m *Model) EmitDragEnded() {
	defer m.lockFeedback("EmitDragEnded").unlock()
	m.notify(instanceChanges, func(View) Notification { return DragEnded{} })
}

func (m *Model) EmitActiveScene3DChanged(sceneID int32) {
	defer m.lockFeedback("EmitActiveScene3DChanged").unlock()
	m.notify(instanceChanges, func(View) Notification { return ActiveScene3DChanged{SceneID: sceneID} })
}

func (m *Model) EmitEdit3DToolStateChanged(sceneID int32, state map[string]interface{}) {
	defer m.lockFeedback("EmitEdit3DToolStateChanged").unlock()
	m.notify(instanceChanges, func(View) Notification {
		return Edit3DToolStateChanged{SceneID: sceneID, State: state}
	})
}

func (m *Model) EmitRenderImage3DChanged(image []byte) {
	defer m.lockFeedback("EmitRenderImage3DChanged").unlock()
	m.notify(instanceChanges, func(View) Notification { return RenderImage3DChanged{Image: image} })
}

func (m *Model) EmitModelNodePreviewImageChanged(node ModelNode, image []byte) {
	defer m.lockFeedback("EmitModelNodePreviewImageChanged").unlock()
	if node.m != m {
		return
	}
	m.notify(instanceChanges, func(v View) Notification {
		return ModelNodePreviewImageChanged{Node: m.nodeHandle(node.internalID, v), Image: image}
	})
}

func (m *Model) EmitImport3DSupportChanged(support map[string]interface{}) {
	defer m.lockFeedback("EmitImport3DSupportChanged").unlock()
	m.notify(instanceChanges, func(View) Notification { return Import3DSupportChanged{Support: support} })
}

func (m *Model) EmitNodeAtPositionReady(node ModelNode, pos Point) {
	defer m.lockFeedback("EmitNodeAtPositionReady").unlock()
	m.notify(instanceChanges, func(v View) Notification {
		n := ModelNode{}
		if node.m == m {
			n = m.nodeHandle(node.internalID, v)
		}
		return NodeAtPositionReady{Node: n, Position: pos}
	})
}
