package instance

import (
	"encoding/json"
	"fmt"

	"github.com/CrimsonAS/qmlmodel/model"
)

// HandleReply decodes and processes one renderer reply. It implements
// puppet.ReplyHandler.
func (v *NodeInstanceView) HandleReply(name string, data json.RawMessage) error {
	reply, err := DecodeReply(name, data)
	if err != nil {
		return err
	}
	return v.ProcessReply(reply)
}

// ProcessReply applies a decoded reply to the records and emits the
// matching instance notifications. Replies arriving after the mirror was
// detached, and records of nodes that no longer exist, are ignored.
func (v *NodeInstanceView) ProcessReply(reply Reply) error {
	m := v.Model()
	if m == nil || v.sink == nil {
		return nil
	}

	switch r := reply.(type) {
	case *ValuesChangedReply:
		v.valuesChanged(m, r)
	case *ValuesModifiedReply:
		v.valuesModified(r)
	case *PixmapChangedReply:
		v.pixmapChanged(m, r)
	case *InformationChangedReply:
		m.EmitInstanceInformationsChange(v.applyInformations(r.Informations))
	case *ChildrenChangedReply:
		v.childrenChanged(m, r)
	case *StatePreviewImageChangedReply:
		var nodes []model.ModelNode
		for _, img := range r.Images {
			if rec, node := v.lookup(img.InstanceID); rec != nil {
				rec.PreviewPixmap = img.Image
				nodes = append(nodes, node)
			}
		}
		m.EmitInstancesPreviewImageChanged(nodes)
	case *ComponentCompletedReply:
		var nodes []model.ModelNode
		for _, id := range r.InstanceIDs {
			if rec, node := v.lookup(id); rec != nil {
				rec.Completed = true
				nodes = append(nodes, node)
			}
		}
		m.EmitInstancesCompleted(nodes)
	case *DebugOutputReply:
		v.debugOutput(m, r)
	case *TokenReply:
		m.EmitInstanceToken(r.Token, r.Number, v.nodes(r.InstanceIDs))
	case *ChangeSelectionReply:
		v.changeSelection(m, r)
	case *CapturedDataReply:
		v.capturedData = r.Data
	case *SceneCreatedReply:
		v.logger.Debug("instance: renderer created the scene", "instances", len(v.records))
	case *PuppetToCreatorReply:
		return v.puppetToCreator(m, r)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownReply, reply)
	}
	return nil
}

// lookup resolves an instance id to its record and node. Both are nil
// or invalid if the id is unknown.
func (v *NodeInstanceView) lookup(id int32) (*NodeInstance, model.ModelNode) {
	rec := v.records[id]
	if rec == nil {
		return nil, model.ModelNode{}
	}
	node := v.ModelNodeForInternalID(id)
	if !node.IsValid() {
		return nil, model.ModelNode{}
	}
	return rec, node
}

func (v *NodeInstanceView) nodes(ids []int32) []model.ModelNode {
	var nodes []model.ModelNode
	for _, id := range ids {
		if rec, node := v.lookup(id); rec != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// changeSelection selects the nodes chosen in the renderer without
// sending the selection back to it.
func (v *NodeInstanceView) changeSelection(m *model.Model, r *ChangeSelectionReply) {
	v.applyingSelection = true
	defer func() { v.applyingSelection = false }()
	m.SetSelectedNodes(v.nodes(r.InstanceIDs))
}

func (v *NodeInstanceView) valuesChanged(m *model.Model, r *ValuesChangedReply) {
	var changed []model.PropertyPair
	for _, c := range r.Values {
		rec, node := v.lookup(c.InstanceID)
		if rec == nil {
			continue
		}
		rec.Properties[c.Name] = c.Value
		changed = append(changed, model.PropertyPair{Node: node, Name: c.Name})
	}
	m.EmitInstancePropertyChange(changed)
	v.send(RemoveSharedMemoryCommand{TypeName: "Values", Keys: []int32{r.KeyNumber}})
}

// valuesModified writes values changed inside the renderer into the
// document. The records are updated first so the change is not sent back.
func (v *NodeInstanceView) valuesModified(r *ValuesModifiedReply) {
	for _, c := range r.Values {
		rec, node := v.lookup(c.InstanceID)
		if rec == nil {
			continue
		}
		rec.Properties[c.Name] = c.Value
		if c.DynamicTypeName != "" {
			node.VariantProperty(c.Name).SetDynamicTypeNameAndValue(c.DynamicTypeName, c.Value)
		} else {
			node.VariantProperty(c.Name).SetValue(c.Value)
		}
	}
}

func (v *NodeInstanceView) pixmapChanged(m *model.Model, r *PixmapChangedReply) {
	var nodes []model.ModelNode
	var keys []int32
	for _, img := range r.Images {
		keys = append(keys, img.KeyNumber)
		rec, node := v.lookup(img.InstanceID)
		if rec == nil {
			continue
		}
		rec.Pixmap = img.Image
		nodes = append(nodes, node)
	}
	m.EmitInstancesRenderImageChanged(nodes)
	if len(keys) > 0 {
		v.send(RemoveSharedMemoryCommand{TypeName: "Image", Keys: keys})
	}
}

func (v *NodeInstanceView) childrenChanged(m *model.Model, r *ChildrenChangedReply) {
	rec, node := v.lookup(r.InstanceID)
	if rec == nil {
		return
	}
	rec.Children = nil
	for _, id := range r.ChildIDs {
		if v.records[id] != nil {
			rec.Children = append(rec.Children, id)
		}
	}
	m.EmitInstanceInformationsChange(v.applyInformations(r.Informations))
	m.EmitInstancesChildrenChanged([]model.ModelNode{node})
}

// applyInformations updates the records and groups the changed
// informations by node, in order of first appearance.
func (v *NodeInstanceView) applyInformations(infos []InformationContainer) []model.InformationChange {
	var changes []model.InformationChange
	index := make(map[int32]int)
	for _, info := range infos {
		rec, node := v.lookup(info.InstanceID)
		if rec == nil {
			continue
		}
		changed, err := applyInformation(rec, info)
		if err != nil {
			v.logger.Warn("instance: invalid information", "instance", info.InstanceID, "name", info.Name, "error", err)
			continue
		}
		if !changed {
			continue
		}
		i, ok := index[info.InstanceID]
		if !ok {
			i = len(changes)
			index[info.InstanceID] = i
			changes = append(changes, model.InformationChange{Node: node})
		}
		changes[i].Names = append(changes[i].Names, info.Name)
	}
	return changes
}

// applyInformation stores one information in rec and reports whether the
// record changed.
func applyInformation(rec *NodeInstance, info InformationContainer) (bool, error) {
	switch info.Name {
	case model.InformationSize:
		return decodeInto(info.Information, &rec.Size)
	case model.InformationBoundingRect:
		return decodeInto(info.Information, &rec.BoundingRect)
	case model.InformationContentRect:
		return decodeInto(info.Information, &rec.ContentItemBoundingRect)
	case model.InformationPosition, model.InformationTransform:
		return decodeInto(info.Information, &rec.Position)
	case model.InformationParent:
		return decodeInto(info.Information, &rec.ParentInstanceID)
	case model.InformationIsMovable:
		return decodeInto(info.Information, &rec.IsMovable)
	case model.InformationIsResizable:
		return decodeInto(info.Information, &rec.IsResizable)
	case model.InformationHasContent:
		return decodeInto(info.Information, &rec.HasContent)
	case model.InformationHasAnchor:
		return decodeInto(info.Information, &rec.HasAnchors)
	case model.InformationInstanceType:
		var property, typeName string
		if err := json.Unmarshal(info.Information, &property); err != nil {
			return false, err
		}
		if err := json.Unmarshal(info.SecondInformation, &typeName); err != nil {
			return false, err
		}
		if rec.InstanceTypes[property] == typeName {
			return false, nil
		}
		rec.InstanceTypes[property] = typeName
		return true, nil
	default:
		return false, nil
	}
}

// decodeInto decodes data into *dst and reports whether the value changed.
func decodeInto[T comparable](data json.RawMessage, dst *T) (bool, error) {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return false, err
	}
	if value == *dst {
		return false, nil
	}
	*dst = value
	return true, nil
}

func (v *NodeInstanceView) debugOutput(m *model.Model, r *DebugOutputReply) {
	switch r.Type {
	case "error", "fatal":
		v.logger.Warn("puppet: renderer error", "text", r.Text, "instances", r.InstanceIDs)
		var nodes []model.ModelNode
		for _, id := range r.InstanceIDs {
			if rec, node := v.lookup(id); rec != nil {
				rec.Error = r.Text
				nodes = append(nodes, node)
			}
		}
		m.EmitInstanceErrorChange(nodes)
	case "warning":
		v.logger.Warn("puppet: " + r.Text)
	default:
		v.logger.Debug("puppet: " + r.Text)
	}
}

func (v *NodeInstanceView) puppetToCreator(m *model.Model, r *PuppetToCreatorReply) error {
	switch r.Type {
	case Edit3DToolStateType:
		var state Edit3DToolState
		if err := json.Unmarshal(r.Data, &state); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		m.EmitEdit3DToolStateChanged(state.SceneID, state.State)

	case Render3DViewType:
		var view Render3DView
		if err := json.Unmarshal(r.Data, &view); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		m.EmitRenderImage3DChanged(view.Image)

	case ActiveSceneChangedType:
		var scene ActiveSceneChanged
		if err := json.Unmarshal(r.Data, &scene); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		m.EmitActiveScene3DChanged(scene.SceneID)

	case RenderModelNodePreviewImageType:
		var preview ModelNodePreviewImage
		if err := json.Unmarshal(r.Data, &preview); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		id, requested := v.previewRequests[preview.RequestID]
		if !requested {
			id = preview.InstanceID
		}
		delete(v.previewRequests, preview.RequestID)
		if rec, node := v.lookup(id); rec != nil {
			rec.PreviewPixmap = preview.Image
			m.EmitModelNodePreviewImageChanged(node, preview.Image)
		}

	case Import3DSupportType:
		var support map[string]interface{}
		if err := json.Unmarshal(r.Data, &support); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		m.EmitImport3DSupportChanged(support)

	case NodeAtPosType:
		var at NodeAtPos
		if err := json.Unmarshal(r.Data, &at); err != nil {
			return fmt.Errorf("instance: decoding %s: %w", r.Type, err)
		}
		_, node := v.lookup(at.InstanceID)
		m.EmitNodeAtPositionReady(node, at.Position)

	default:
		v.logger.Warn("puppet: WARNING: unknown renderer message", "type", r.Type)
	}
	return nil
}
