package instance

import (
	uuid "github.com/satori/go.uuid"

	"github.com/CrimsonAS/qmlmodel/model"
)

// Containers are the building blocks of commands. Nodes are referred to by
// their internal id, which is also the instance id on the renderer side.

// MetaType tells the renderer whether an instance is a visual item.
type MetaType string

const (
	ObjectMetaType MetaType = "object"
	ItemMetaType   MetaType = "item"
)

type InstanceContainer struct {
	InstanceID     int32    `json:"instanceId"`
	TypeName       string   `json:"type"`
	MajorVersion   int      `json:"majorNumber"`
	MinorVersion   int      `json:"minorNumber"`
	MetaType       MetaType `json:"metaType"`
	NodeSource     string   `json:"nodeSource,omitempty"`
	NodeSourceType int      `json:"nodeSourceType"`
}

type ReparentContainer struct {
	InstanceID          int32  `json:"instanceId"`
	OldParentInstanceID int32  `json:"oldParentInstanceId"`
	OldParentProperty   string `json:"oldParentProperty"`
	NewParentInstanceID int32  `json:"newParentInstanceId"`
	NewParentProperty   string `json:"newParentProperty"`
}

type IDContainer struct {
	InstanceID int32  `json:"instanceId"`
	ID         string `json:"id"`
}

type PropertyValueContainer struct {
	InstanceID      int32       `json:"instanceId"`
	Name            string      `json:"name"`
	Value           interface{} `json:"value"`
	DynamicTypeName string      `json:"dynamicTypeName,omitempty"`
	// AuxiliaryType is set for values that come from auxiliary data.
	AuxiliaryType string `json:"auxiliaryType,omitempty"`
}

type PropertyBindingContainer struct {
	InstanceID      int32  `json:"instanceId"`
	Name            string `json:"name"`
	Expression      string `json:"expression"`
	DynamicTypeName string `json:"dynamicTypeName,omitempty"`
}

type PropertyAbstractContainer struct {
	InstanceID      int32  `json:"instanceId"`
	Name            string `json:"name"`
	DynamicTypeName string `json:"dynamicTypeName,omitempty"`
}

// MockupTypeContainer describes a type the renderer cannot load, such as a
// component of the project that is not part of any library.
type MockupTypeContainer struct {
	TypeName     string            `json:"typeName"`
	MajorVersion int               `json:"majorVersion"`
	MinorVersion int               `json:"minorVersion"`
	IsItem       bool              `json:"isItem"`
	Properties   map[string]string `json:"properties"`
}

// Commands.

type CreateSceneCommand struct {
	Instances       []InstanceContainer        `json:"instances"`
	Reparents       []ReparentContainer        `json:"reparents"`
	IDs             []IDContainer              `json:"ids"`
	Values          []PropertyValueContainer   `json:"values"`
	Bindings        []PropertyBindingContainer `json:"bindings"`
	Auxiliary       []PropertyValueContainer   `json:"auxiliary"`
	Imports         []model.Import             `json:"imports"`
	MockupTypes     []MockupTypeContainer      `json:"mockupTypes"`
	FileURL         string                     `json:"fileUrl"`
	Language        string                     `json:"language,omitempty"`
	StateInstanceID int32                      `json:"stateInstanceId"`
}

type ClearSceneCommand struct{}

type CreateInstancesCommand struct {
	Instances []InstanceContainer `json:"instances"`
}

type RemoveInstancesCommand struct {
	InstanceIDs []int32 `json:"instanceIds"`
}

type ReparentInstancesCommand struct {
	Reparents []ReparentContainer `json:"reparents"`
}

type ChangeValuesCommand struct {
	Values []PropertyValueContainer `json:"values"`
}

type ChangeBindingsCommand struct {
	Bindings []PropertyBindingContainer `json:"bindings"`
}

type ChangeAuxiliaryCommand struct {
	Values []PropertyValueContainer `json:"values"`
}

type RemovePropertiesCommand struct {
	Properties []PropertyAbstractContainer `json:"properties"`
}

type ChangeIDsCommand struct {
	IDs []IDContainer `json:"ids"`
}

type ChangeStateCommand struct {
	StateInstanceID int32 `json:"stateInstanceId"`
}

type ChangeSelectionCommand struct {
	InstanceIDs []int32 `json:"instanceIds"`
}

type ChangeFileURLCommand struct {
	FileURL string `json:"fileUrl"`
}

type ChangeLanguageCommand struct {
	Language string `json:"language"`
}

type ChangeNodeSourceCommand struct {
	InstanceID int32  `json:"instanceId"`
	NodeSource string `json:"nodeSource"`
}

type ChangePreviewImageSizeCommand struct {
	Size model.Size `json:"size"`
}

type CompleteComponentCommand struct {
	InstanceIDs []int32 `json:"instanceIds"`
}

// InputEventCommand forwards a mouse or key event to the renderer's
// interactive 3D editor.
type InputEventCommand struct {
	Type      string      `json:"type"`
	Position  model.Point `json:"position"`
	Button    int         `json:"button,omitempty"`
	Buttons   int         `json:"buttons,omitempty"`
	Modifiers int         `json:"modifiers,omitempty"`
	Key       int         `json:"key,omitempty"`
}

type View3DActionCommand struct {
	Action string      `json:"action"`
	Value  interface{} `json:"value,omitempty"`
}

type TokenCommand struct {
	Token       string  `json:"token"`
	Number      int     `json:"number"`
	InstanceIDs []int32 `json:"instanceIds"`
}

// RemoveSharedMemoryCommand releases the buffers the renderer used to
// transport a reply payload. Keys are instance ids or reply key numbers.
type RemoveSharedMemoryCommand struct {
	TypeName string  `json:"typeName"`
	Keys     []int32 `json:"keyNumbers"`
}

type RequestModelNodePreviewImageCommand struct {
	RequestID  uuid.UUID  `json:"requestId"`
	InstanceID int32      `json:"instanceId"`
	Size       model.Size `json:"size"`
}

// BenchmarkCommand asks the renderer to log timing information.
type BenchmarkCommand struct {
	Label string `json:"label"`
}

func (CreateSceneCommand) CommandName() string                  { return "CREATE_SCENE" }
func (ClearSceneCommand) CommandName() string                   { return "CLEAR_SCENE" }
func (CreateInstancesCommand) CommandName() string              { return "CREATE_INSTANCES" }
func (RemoveInstancesCommand) CommandName() string              { return "REMOVE_INSTANCES" }
func (ReparentInstancesCommand) CommandName() string            { return "REPARENT_INSTANCES" }
func (ChangeValuesCommand) CommandName() string                 { return "CHANGE_VALUES" }
func (ChangeBindingsCommand) CommandName() string               { return "CHANGE_BINDINGS" }
func (ChangeAuxiliaryCommand) CommandName() string              { return "CHANGE_AUXILIARY" }
func (RemovePropertiesCommand) CommandName() string             { return "REMOVE_PROPERTIES" }
func (ChangeIDsCommand) CommandName() string                    { return "CHANGE_IDS" }
func (ChangeStateCommand) CommandName() string                  { return "CHANGE_STATE" }
func (ChangeSelectionCommand) CommandName() string              { return "CHANGE_SELECTION" }
func (ChangeFileURLCommand) CommandName() string                { return "CHANGE_FILE_URL" }
func (ChangeLanguageCommand) CommandName() string               { return "CHANGE_LANGUAGE" }
func (ChangeNodeSourceCommand) CommandName() string             { return "CHANGE_NODE_SOURCE" }
func (ChangePreviewImageSizeCommand) CommandName() string       { return "CHANGE_PREVIEW_IMAGE_SIZE" }
func (CompleteComponentCommand) CommandName() string            { return "COMPLETE_COMPONENT" }
func (InputEventCommand) CommandName() string                   { return "INPUT_EVENT" }
func (View3DActionCommand) CommandName() string                 { return "VIEW3D_ACTION" }
func (TokenCommand) CommandName() string                        { return "TOKEN" }
func (RemoveSharedMemoryCommand) CommandName() string           { return "REMOVE_SHARED_MEMORY" }
func (RequestModelNodePreviewImageCommand) CommandName() string { return "REQUEST_MODEL_NODE_PREVIEW_IMAGE" }
func (BenchmarkCommand) CommandName() string                    { return "BENCHMARK" }
