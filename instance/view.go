package instance

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/CrimsonAS/qmlmodel/model"
	"github.com/CrimsonAS/qmlmodel/puppet"
)

// CommandSink carries commands to a renderer. *puppet.Process is one.
type CommandSink interface {
	Send(cmd puppet.Command) error
	Close() error
}

// PuppetStarter starts a renderer whose replies go to replies.
type PuppetStarter interface {
	StartPuppet(replies puppet.ReplyHandler) (CommandSink, error)
}

// PuppetStarterFunc adapts a function to PuppetStarter.
type PuppetStarterFunc func(replies puppet.ReplyHandler) (CommandSink, error)

func (f PuppetStarterFunc) StartPuppet(replies puppet.ReplyHandler) (CommandSink, error) {
	return f(replies)
}

// CrashMessage is the document error reported when the renderer crashed
// too soon after the previous crash to be restarted.
const CrashMessage = "Qt Quick emulation layer crashed."

// Custom notification identifiers understood or sent by the mirror.
const (
	ResetPuppetNotification   = "reset puppet"
	PuppetCrashedNotification = "puppet crashed"
)

// DefaultResetDelay is how long ScheduleReset waits for further resets.
const DefaultResetDelay = 200 * time.Millisecond

var (
	skippedRootTypes = map[string]bool{
		"QtQuick.ListModel":      true,
		"QtQml.Models.ListModel": true,
	}
	skippedNodeTypes = map[string]bool{
		"QtQuick.ListElement":      true,
		"QtQml.Models.ListElement": true,
		"QtQuick.XmlRole":          true,
	}
)

// NodeInstanceView mirrors a model into a renderer. Put it in the node
// instance view slot of a model:
//
//  v := instance.NewNodeInstanceView(starter)
//  m.SetNodeInstanceView(v)
//
// Replies of the renderer must be handed to HandleReply (or ProcessReply)
// on the goroutine owning the model.
type NodeInstanceView struct {
	model.ViewBase

	starter PuppetStarter
	sink    CommandSink
	logger  *slog.Logger
	now     func() time.Time
	post    func(func())
	posted  chan func()
	cache   *Cache

	crashThreshold time.Duration
	resetDelay     time.Duration
	crashes        *crashLimiter
	reset          *debouncer

	records map[int32]*NodeInstance
	// skippedRoot is set when the root type is never mirrored.
	skippedRoot bool
	// applyingSelection suppresses echoing a renderer selection back.
	applyingSelection bool

	previewRequests map[uuid.UUID]int32
	capturedData    json.RawMessage
}

// Option configures a NodeInstanceView.
type Option func(*NodeInstanceView)

func WithLogger(logger *slog.Logger) Option {
	return func(v *NodeInstanceView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock replaces time.Now for crash rate limiting.
func WithClock(now func() time.Time) Option {
	return func(v *NodeInstanceView) {
		if now != nil {
			v.now = now
		}
	}
}

func WithCrashThreshold(d time.Duration) Option {
	return func(v *NodeInstanceView) {
		v.crashThreshold = d
	}
}

func WithResetDelay(d time.Duration) Option {
	return func(v *NodeInstanceView) {
		v.resetDelay = d
	}
}

// WithPoster sets how delayed work reaches the goroutine owning the model.
// Without a poster, delayed work is queued on Posted.
func WithPoster(post func(func())) Option {
	return func(v *NodeInstanceView) {
		if post != nil {
			v.post = post
		}
	}
}

// WithCache keeps the records of the mirror in c while it is detached.
func WithCache(c *Cache) Option {
	return func(v *NodeInstanceView) {
		v.cache = c
	}
}

func NewNodeInstanceView(starter PuppetStarter, opts ...Option) *NodeInstanceView {
	v := &NodeInstanceView{
		starter:         starter,
		logger:          slog.Default(),
		now:             time.Now,
		posted:          make(chan func(), 16),
		crashThreshold:  DefaultCrashThreshold,
		resetDelay:      DefaultResetDelay,
		previewRequests: make(map[uuid.UUID]int32),
	}
	v.post = func(f func()) { v.posted <- f }
	for _, opt := range opts {
		opt(v)
	}
	v.SetDisplayName("NodeInstanceView")
	v.crashes = newCrashLimiter(v.crashThreshold, v.now)
	v.reset = &debouncer{delay: v.resetDelay, post: v.post}
	return v
}

// Posted delivers the delayed work of a mirror created without WithPoster.
// The goroutine owning the model must run every function it receives, for
// instance by passing it to puppet.Launcher.Serve.
func (v *NodeInstanceView) Posted() <-chan func() {
	return v.posted
}

// RunPending runs the delayed work queued on Posted so far.
func (v *NodeInstanceView) RunPending() {
	for {
		select {
		case f := <-v.posted:
			f()
		default:
			return
		}
	}
}

// IsRunning reports whether a renderer is connected.
func (v *NodeInstanceView) IsRunning() bool {
	return v.sink != nil
}

func (v *NodeInstanceView) send(cmd puppet.Command) {
	if v.sink == nil {
		return
	}
	if err := v.sink.Send(cmd); err != nil {
		v.logger.Warn("puppet: WARNING: sending command failed", "command", cmd.CommandName(), "error", err)
	}
}

func (v *NodeInstanceView) record(node model.ModelNode) *NodeInstance {
	if !node.IsValid() {
		return nil
	}
	return v.records[node.InternalID()]
}

// InstanceForModelNode returns a copy of the record of node.
func (v *NodeInstanceView) InstanceForModelNode(node model.ModelNode) (NodeInstance, bool) {
	rec := v.record(node)
	if rec == nil {
		return NodeInstance{}, false
	}
	return *rec.clone(), true
}

func (v *NodeInstanceView) HasInstanceForModelNode(node model.ModelNode) bool {
	return v.record(node) != nil
}

// InstanceCount returns the number of mirrored nodes.
func (v *NodeInstanceView) InstanceCount() int {
	return len(v.records)
}

// Notify implements model.View.
func (v *NodeInstanceView) Notify(n model.Notification) error {
	switch n := n.(type) {
	case model.ModelAttached:
		return v.attach(n.Model)
	case model.ModelAboutToBeDetached:
		v.detach(n.Model)
		return nil
	}

	if v.sink == nil {
		return nil
	}

	switch n := n.(type) {
	case model.NodeCreated:
		v.nodeCreated(n.Node)
	case model.NodeAboutToBeRemoved:
		v.nodeAboutToBeRemoved(n.Node)
	case model.NodeReparented:
		v.nodeReparented(n)
	case model.NodeOrderChanged:
		v.nodeOrderChanged(n.ListProperty)
	case model.PropertiesAboutToBeRemoved:
		v.propertiesAboutToBeRemoved(n.Properties)
	case model.VariantPropertiesChanged:
		v.variantPropertiesChanged(n.Properties)
	case model.BindingPropertiesChanged:
		v.bindingPropertiesChanged(n.Properties)
	case model.NodeIDChanged:
		if rec := v.record(n.Node); rec != nil {
			v.send(ChangeIDsCommand{IDs: []IDContainer{{InstanceID: rec.InternalID, ID: n.NewID}}})
		}
	case model.AuxiliaryDataChanged:
		v.auxiliaryDataChanged(n.Node, n.Key, n.Value)
	case model.NodeSourceChanged:
		if rec := v.record(n.Node); rec != nil {
			v.send(ChangeNodeSourceCommand{InstanceID: rec.InternalID, NodeSource: n.NodeSource})
		}
	case model.FileURLChanged:
		v.send(ChangeFileURLCommand{FileURL: n.NewURL})
	case model.CurrentStateChanged:
		v.send(ChangeStateCommand{StateInstanceID: v.instanceID(n.Node)})
	case model.SelectedNodesChanged:
		if !v.applyingSelection {
			v.send(ChangeSelectionCommand{InstanceIDs: v.instanceIDs(n.Selected)})
		}
	case model.NodeTypeChanged, model.RootNodeTypeChanged, model.ImportsChanged, model.CurrentTimelineChanged:
		// The renderer cannot change types or imports of a live scene.
		v.ScheduleReset()
	case model.CustomNotification:
		if n.Identifier == ResetPuppetNotification {
			v.ScheduleReset()
		}
	}
	return nil
}

func (v *NodeInstanceView) instanceID(node model.ModelNode) int32 {
	if rec := v.record(node); rec != nil {
		return rec.InternalID
	}
	return -1
}

// instanceIDs returns the ids of the mirrored nodes among nodes.
func (v *NodeInstanceView) instanceIDs(nodes []model.ModelNode) []int32 {
	ids := make([]int32, 0, len(nodes))
	for _, node := range nodes {
		if rec := v.record(node); rec != nil {
			ids = append(ids, rec.InternalID)
		}
	}
	return ids
}

func (v *NodeInstanceView) attach(m *model.Model) error {
	root := v.RootModelNode()
	if skippedRootTypes[root.Type()] {
		v.skippedRoot = true
		v.logger.Debug("instance: root type is not mirrored", "type", root.Type())
		return nil
	}
	v.skippedRoot = false
	return v.startPuppet(m, true)
}

func (v *NodeInstanceView) detach(m *model.Model) {
	v.reset.stop()
	if v.cache != nil && len(v.records) > 0 {
		v.cache.store(m, v.records)
	}
	v.stopPuppet()
}

func (v *NodeInstanceView) stopPuppet() {
	if v.sink != nil {
		if err := v.sink.Close(); err != nil {
			v.logger.Debug("instance: closing renderer", "error", err)
		}
	}
	v.sink = nil
	v.records = nil
	v.previewRequests = make(map[uuid.UUID]int32)
}

// startPuppet starts a renderer and sends it the whole document. With
// useCache, records of a previous mirror of m are reused.
func (v *NodeInstanceView) startPuppet(m *model.Model, useCache bool) error {
	sink, err := v.starter.StartPuppet(v)
	if err != nil {
		return fmt.Errorf("instance: starting renderer: %w", err)
	}
	v.sink = sink

	var cached map[int32]*NodeInstance
	if useCache && v.cache != nil {
		cached, _ = v.cache.load(m)
	}

	nodes := v.mirroredNodes()
	v.records = make(map[int32]*NodeInstance, len(nodes))
	restored := 0
	for _, node := range nodes {
		if rec, ok := cached[node.InternalID()]; ok {
			rec.TypeName = node.Type()
			v.records[node.InternalID()] = rec
			restored++
			continue
		}
		v.records[node.InternalID()] = newNodeInstance(node)
	}
	if restored > 0 {
		v.logger.Debug("instance: restored cached records", "count", restored)
	}

	v.send(v.createSceneCommand(m, nodes))
	return nil
}

// mirroredNodes returns the nodes of the tree that have an instance,
// parents before children. Skipped nodes and their subtrees are left out.
func (v *NodeInstanceView) mirroredNodes() []model.ModelNode {
	var nodes []model.ModelNode
	var walk func(node model.ModelNode)
	walk = func(node model.ModelNode) {
		if skippedNodeTypes[node.Type()] {
			return
		}
		nodes = append(nodes, node)
		for _, child := range node.DirectSubModelNodes() {
			walk(child)
		}
	}
	walk(v.RootModelNode())
	return nodes
}

func (v *NodeInstanceView) instanceContainer(node model.ModelNode) InstanceContainer {
	c := InstanceContainer{
		InstanceID:     node.InternalID(),
		TypeName:       node.Type(),
		MajorVersion:   node.MajorVersion(),
		MinorVersion:   node.MinorVersion(),
		MetaType:       ObjectMetaType,
		NodeSource:     node.NodeSource(),
		NodeSourceType: int(node.NodeSourceType()),
	}
	if node.IsGraphical() {
		c.MetaType = ItemMetaType
	}
	return c
}

func reparentContainer(node model.ModelNode, oldParent, newParent model.NodeAbstractProperty) ReparentContainer {
	c := ReparentContainer{
		InstanceID:          node.InternalID(),
		OldParentInstanceID: -1,
		NewParentInstanceID: -1,
	}
	if oldParent.IsValid() {
		c.OldParentInstanceID = oldParent.ParentModelNode().InternalID()
		c.OldParentProperty = oldParent.Name()
	}
	if newParent.IsValid() {
		c.NewParentInstanceID = newParent.ParentModelNode().InternalID()
		c.NewParentProperty = newParent.Name()
	}
	return c
}

// isSceneAuxiliary reports whether an auxiliary datum is part of the
// scene sent to the renderer.
func isSceneAuxiliary(key model.AuxiliaryDataKey) bool {
	return key == model.LockedKey || key == model.InvisibleKey ||
		key.Type == model.NodeInstancePropertyOverwriteAuxiliary ||
		key.Type == model.NodeInstanceAuxiliary
}

func (v *NodeInstanceView) createSceneCommand(m *model.Model, nodes []model.ModelNode) CreateSceneCommand {
	cmd := CreateSceneCommand{
		Instances:       []InstanceContainer{},
		Reparents:       []ReparentContainer{},
		IDs:             []IDContainer{},
		Values:          []PropertyValueContainer{},
		Bindings:        []PropertyBindingContainer{},
		Auxiliary:       []PropertyValueContainer{},
		Imports:         m.Imports(),
		FileURL:         m.FileURL(),
		StateInstanceID: v.instanceID(m.CurrentStateNode(v)),
	}

	for _, node := range nodes {
		id := node.InternalID()
		rec := v.records[id]
		cmd.Instances = append(cmd.Instances, v.instanceContainer(node))
		if node.HasParentProperty() {
			cmd.Reparents = append(cmd.Reparents, reparentContainer(node, model.NodeAbstractProperty{}, node.ParentProperty()))
		}
		if node.HasID() {
			cmd.IDs = append(cmd.IDs, IDContainer{InstanceID: id, ID: node.ID()})
		}
		for _, p := range node.VariantProperties() {
			rec.Properties[p.Name()] = p.Value()
			cmd.Values = append(cmd.Values, PropertyValueContainer{
				InstanceID:      id,
				Name:            p.Name(),
				Value:           p.Value(),
				DynamicTypeName: p.DynamicTypeName(),
			})
		}
		for _, p := range node.BindingProperties() {
			cmd.Bindings = append(cmd.Bindings, PropertyBindingContainer{
				InstanceID:      id,
				Name:            p.Name(),
				Expression:      p.Expression(),
				DynamicTypeName: p.DynamicTypeName(),
			})
		}
		for _, aux := range node.AuxiliaryDataList() {
			if !isSceneAuxiliary(aux.Key) {
				continue
			}
			cmd.Auxiliary = append(cmd.Auxiliary, PropertyValueContainer{
				InstanceID:    id,
				Name:          aux.Key.Name,
				Value:         aux.Value,
				AuxiliaryType: aux.Key.Type.String(),
			})
		}
	}

	cmd.MockupTypes = mockupTypes(m.MetaInfo(), nodes)
	if lang, ok := v.RootModelNode().AuxiliaryData(model.LanguageKey); ok {
		cmd.Language, _ = lang.(string)
	}
	return cmd
}

func (v *NodeInstanceView) nodeCreated(node model.ModelNode) {
	if skippedNodeTypes[node.Type()] {
		return
	}
	rec := newNodeInstance(node)
	v.records[rec.InternalID] = rec

	v.send(CreateInstancesCommand{Instances: []InstanceContainer{v.instanceContainer(node)}})
	if values := v.changedValues(node.VariantProperties()); len(values) > 0 {
		v.send(ChangeValuesCommand{Values: values})
	}
	v.send(CompleteComponentCommand{InstanceIDs: []int32{rec.InternalID}})
}

// nodeAboutToBeRemoved runs while the node can still be resolved. The
// renderer removes the children of a removed instance itself.
func (v *NodeInstanceView) nodeAboutToBeRemoved(node model.ModelNode) {
	rec := v.record(node)
	if rec == nil {
		return
	}
	ids := []int32{rec.InternalID}
	v.send(RemoveInstancesCommand{InstanceIDs: ids})
	v.send(RemoveSharedMemoryCommand{TypeName: "Image", Keys: ids})

	v.dropRecords(append([]model.ModelNode{node}, node.AllSubModelNodes()...))
}

func (v *NodeInstanceView) dropRecords(nodes []model.ModelNode) {
	for _, node := range nodes {
		delete(v.records, node.InternalID())
	}
}

func (v *NodeInstanceView) nodeReparented(n model.NodeReparented) {
	rec := v.record(n.Node)
	if rec == nil {
		return
	}
	c := reparentContainer(n.Node, n.OldParentProperty, n.NewParentProperty)
	rec.ParentInstanceID = c.NewParentInstanceID
	v.send(ReparentInstancesCommand{Reparents: []ReparentContainer{c}})
}

// nodeOrderChanged reparents every child of the list in place, which
// makes the renderer apply the new order.
func (v *NodeInstanceView) nodeOrderChanged(list model.NodeListProperty) {
	var reparents []ReparentContainer
	for _, child := range list.ToModelNodeList() {
		if v.record(child) == nil {
			continue
		}
		parent := list.NodeAbstractProperty
		reparents = append(reparents, reparentContainer(child, parent, parent))
	}
	if len(reparents) > 0 {
		v.send(ReparentInstancesCommand{Reparents: reparents})
	}
}

func (v *NodeInstanceView) propertiesAboutToBeRemoved(properties []model.AbstractProperty) {
	var removedIDs []int32
	var removed []PropertyAbstractContainer
	for _, p := range properties {
		rec := v.record(p.ParentModelNode())
		if rec == nil {
			continue
		}
		if p.IsNodeAbstractProperty() {
			nap := p.ToNodeAbstractProperty()
			removedIDs = append(removedIDs, v.instanceIDs(nap.DirectSubNodes())...)
			v.dropRecords(nap.AllSubNodes())
			continue
		}
		delete(rec.Properties, p.Name())
		removed = append(removed, PropertyAbstractContainer{
			InstanceID:      rec.InternalID,
			Name:            p.Name(),
			DynamicTypeName: p.DynamicTypeName(),
		})
	}
	if len(removedIDs) > 0 {
		v.send(RemoveInstancesCommand{InstanceIDs: removedIDs})
		v.send(RemoveSharedMemoryCommand{TypeName: "Image", Keys: removedIDs})
	}
	if len(removed) > 0 {
		v.send(RemovePropertiesCommand{Properties: removed})
	}
}

// changedValues returns containers for the properties whose value differs
// from what the renderer already has, and records the new values.
func (v *NodeInstanceView) changedValues(properties []model.VariantProperty) []PropertyValueContainer {
	var values []PropertyValueContainer
	for _, p := range properties {
		rec := v.record(p.ParentModelNode())
		if rec == nil {
			continue
		}
		value := p.Value()
		if old, ok := rec.Properties[p.Name()]; ok && valuesEqual(old, value) {
			continue
		}
		rec.Properties[p.Name()] = value
		if rec.DirectUpdates && isPositionProperty(p.Name()) {
			continue
		}
		values = append(values, PropertyValueContainer{
			InstanceID:      rec.InternalID,
			Name:            p.Name(),
			Value:           value,
			DynamicTypeName: p.DynamicTypeName(),
		})
	}
	return values
}

func isPositionProperty(name string) bool {
	return name == "x" || name == "y"
}

func (v *NodeInstanceView) variantPropertiesChanged(properties []model.VariantProperty) {
	var changes []model.InformationChange
	for _, p := range properties {
		if isPositionProperty(p.Name()) {
			if target, ok := v.updatePosition(p); ok {
				changes = append(changes, model.InformationChange{
					Node:  target,
					Names: []model.InformationName{model.InformationTransform},
				})
			}
		}
	}

	if values := v.changedValues(properties); len(values) > 0 {
		v.send(ChangeValuesCommand{Values: values})
	}
	if len(changes) > 0 {
		v.Model().EmitInstanceInformationsChange(changes)
	}
}

// updatePosition moves the record of the node whose x or y changed without
// waiting for the renderer. In a state other than the base state, x and y
// of a PropertyChanges node move its target.
func (v *NodeInstanceView) updatePosition(p model.VariantProperty) (model.ModelNode, bool) {
	target := p.ParentModelNode()
	if !v.Model().IsBaseState() && target.IsSubclassOf("QtQuick.PropertyChanges") {
		target = target.BindingProperty("target").ResolveToModelNode()
	}
	rec := v.record(target)
	if rec == nil {
		return model.ModelNode{}, false
	}
	value, ok := toFloat(p.Value())
	if !ok {
		return model.ModelNode{}, false
	}
	if p.Name() == "x" {
		rec.Position.X = value
	} else {
		rec.Position.Y = value
	}
	return target, true
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (v *NodeInstanceView) bindingPropertiesChanged(properties []model.BindingProperty) {
	var bindings []PropertyBindingContainer
	for _, p := range properties {
		rec := v.record(p.ParentModelNode())
		if rec == nil {
			continue
		}
		// The renderer evaluates the binding; the old value is stale.
		delete(rec.Properties, p.Name())
		bindings = append(bindings, PropertyBindingContainer{
			InstanceID:      rec.InternalID,
			Name:            p.Name(),
			Expression:      p.Expression(),
			DynamicTypeName: p.DynamicTypeName(),
		})
	}
	if len(bindings) > 0 {
		v.send(ChangeBindingsCommand{Bindings: bindings})
	}
}

func (v *NodeInstanceView) auxiliaryDataChanged(node model.ModelNode, key model.AuxiliaryDataKey, value interface{}) {
	switch key {
	case model.LanguageKey:
		lang, _ := value.(string)
		v.send(ChangeLanguageCommand{Language: lang})
		return
	case model.PreviewSizeKey:
		if size, ok := value.(model.Size); ok {
			v.send(ChangePreviewImageSizeCommand{Size: size})
		} else if value != nil {
			v.logger.Debug("instance: ignoring preview size", "value", value)
		}
		return
	}

	rec := v.record(node)
	if rec == nil {
		return
	}
	aux := PropertyValueContainer{
		InstanceID:    rec.InternalID,
		Name:          key.Name,
		Value:         value,
		AuxiliaryType: key.Type.String(),
	}

	switch {
	case key == model.LockedKey || key == model.InvisibleKey:
		if aux.Value == nil {
			aux.Value = false
		}
		v.send(ChangeAuxiliaryCommand{Values: []PropertyValueContainer{aux}})

	case key.Type == model.NodeInstancePropertyOverwriteAuxiliary:
		if value != nil {
			v.send(ChangeValuesCommand{Values: []PropertyValueContainer{aux}})
			return
		}
		// The overwrite is gone; the renderer goes back to the document.
		delete(rec.Properties, key.Name)
		if p := node.VariantProperty(key.Name); p.Exists() && p.IsVariantProperty() {
			v.send(ChangeValuesCommand{Values: v.changedValues([]model.VariantProperty{p})})
		} else if b := node.BindingProperty(key.Name); b.Exists() && b.IsBindingProperty() {
			v.bindingPropertiesChanged([]model.BindingProperty{b})
		}

	case key.Type == model.NodeInstanceAuxiliary:
		v.send(ChangeAuxiliaryCommand{Values: []PropertyValueContainer{aux}})
	}
}

// ScheduleReset restarts the renderer once no further reset was scheduled
// for the reset delay.
func (v *NodeInstanceView) ScheduleReset() {
	v.reset.trigger(func() {
		if v.Model() != nil {
			v.ResetPuppet()
		}
	})
}

// ResetPuppet restarts the renderer right away and sends it the whole
// document again.
func (v *NodeInstanceView) ResetPuppet() {
	m := v.Model()
	if m == nil || v.skippedRoot {
		return
	}
	v.reset.stop()
	v.stopPuppet()
	if err := v.startPuppet(m, false); err != nil {
		v.logger.Error("instance: restarting renderer failed", "error", err)
		m.AddDocumentError(err.Error())
	}
}

// HandleCrash is called when the renderer exited unexpectedly. The
// renderer is restarted unless it also crashed shortly before.
func (v *NodeInstanceView) HandleCrash() {
	m := v.Model()
	if m == nil {
		return
	}
	if v.crashes.crashed() {
		v.logger.Warn("instance: renderer crashed, restarting")
		v.ResetPuppet()
	} else {
		v.logger.Error("instance: renderer crashed again, not restarting")
		v.stopPuppet()
		m.AddDocumentError(CrashMessage)
	}
	v.EmitCustomNotification(PuppetCrashedNotification, nil)
}

// SendInputEvent forwards an input event to the renderer.
func (v *NodeInstanceView) SendInputEvent(e InputEventCommand) {
	v.send(e)
}

func (v *NodeInstanceView) View3DAction(action string, value interface{}) {
	v.send(View3DActionCommand{Action: action, Value: value})
}

// SendToken sends a token the renderer answers with a TokenReply for the
// same nodes.
func (v *NodeInstanceView) SendToken(token string, number int, nodes []model.ModelNode) {
	v.send(TokenCommand{Token: token, Number: number, InstanceIDs: v.instanceIDs(nodes)})
}

// RequestModelNodePreviewImage asks for a preview of node. The image
// arrives later as a ModelNodePreviewImageChanged notification. The
// returned request id is uuid.Nil if node has no instance.
func (v *NodeInstanceView) RequestModelNodePreviewImage(node model.ModelNode, size model.Size) uuid.UUID {
	rec := v.record(node)
	if rec == nil || v.sink == nil {
		return uuid.Nil
	}
	requestID, err := uuid.NewV4()
	if err != nil {
		v.logger.Warn("instance: no request id for preview image", "error", err)
		return uuid.Nil
	}
	v.previewRequests[requestID] = rec.InternalID
	v.send(RequestModelNodePreviewImageCommand{RequestID: requestID, InstanceID: rec.InternalID, Size: size})
	return requestID
}

// SetDirectUpdates marks node as edited interactively in the renderer.
// While set, position changes of node are recorded but not sent.
func (v *NodeInstanceView) SetDirectUpdates(node model.ModelNode, direct bool) {
	if rec := v.record(node); rec != nil {
		rec.DirectUpdates = direct
	}
}

// Benchmark asks the renderer to log its timing under label.
func (v *NodeInstanceView) Benchmark(label string) {
	v.send(BenchmarkCommand{Label: label})
}

// CapturedData returns the payload of the last CapturedDataReply.
func (v *NodeInstanceView) CapturedData() json.RawMessage {
	return v.capturedData
}
