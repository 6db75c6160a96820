package instance

import (
	"encoding/json"
	"errors"
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/CrimsonAS/qmlmodel/model"
)

// ErrUnknownReply is returned by DecodeReply for names without a
// registered reply type.
var ErrUnknownReply = errors.New("instance: unknown reply")

// Reply is a message from the renderer.
type Reply interface {
	ReplyName() string
}

type ImageContainer struct {
	InstanceID int32 `json:"instanceId"`
	// Image is the encoded image, base64 on the wire.
	Image     []byte `json:"image"`
	KeyNumber int32  `json:"keyNumber"`
}

// InformationContainer carries one piece of instance information. The
// meaning of the payload fields depends on Name:
//
//   - size: Information is a model.Size
//   - boundingRect, contentItemBoundingRect: Information is a model.Rect
//   - position, transform: Information is a model.Point
//   - parent: Information is the parent instance id
//   - isMovable, isResizable, hasContent, hasAnchor: Information is a bool
//   - instanceTypeForProperty: Information is the property name and
//     SecondInformation its type name
type InformationContainer struct {
	InstanceID        int32                 `json:"instanceId"`
	Name              model.InformationName `json:"name"`
	Information       json.RawMessage       `json:"information,omitempty"`
	SecondInformation json.RawMessage       `json:"secondInformation,omitempty"`
}

type ValuesChangedReply struct {
	Values []PropertyValueContainer `json:"values"`
	// KeyNumber identifies the shared memory block holding the values.
	KeyNumber int32 `json:"keyNumber"`
}

// ValuesModifiedReply reports values the user changed inside the renderer,
// which are written back into the document.
type ValuesModifiedReply struct {
	Values []PropertyValueContainer `json:"values"`
}

type PixmapChangedReply struct {
	Images []ImageContainer `json:"images"`
}

type InformationChangedReply struct {
	Informations []InformationContainer `json:"informations"`
}

type ChildrenChangedReply struct {
	InstanceID   int32                  `json:"instanceId"`
	ChildIDs     []int32                `json:"childrenIds"`
	Informations []InformationContainer `json:"informations"`
}

type StatePreviewImageChangedReply struct {
	Images []ImageContainer `json:"images"`
}

type ComponentCompletedReply struct {
	InstanceIDs []int32 `json:"instanceIds"`
}

// DebugOutputReply is a log message of the renderer. Messages of type
// "error" are attached to the listed instances.
type DebugOutputReply struct {
	Type        string  `json:"type"`
	Text        string  `json:"text"`
	InstanceIDs []int32 `json:"instanceIds"`
}

type TokenReply struct {
	Token       string  `json:"token"`
	Number      int     `json:"number"`
	InstanceIDs []int32 `json:"instanceIds"`
}

// ChangeSelectionReply is a selection made inside the renderer.
type ChangeSelectionReply struct {
	InstanceIDs []int32 `json:"instanceIds"`
}

// CapturedDataReply carries the renderer's view of the scene, captured on
// request for comparison.
type CapturedDataReply struct {
	Data json.RawMessage `json:"data"`
}

type SceneCreatedReply struct{}

// PuppetToCreatorReply is a generic message; Data is decoded according to
// Type.
type PuppetToCreatorReply struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (ValuesChangedReply) ReplyName() string            { return "VALUES_CHANGED" }
func (ValuesModifiedReply) ReplyName() string           { return "VALUES_MODIFIED" }
func (PixmapChangedReply) ReplyName() string            { return "PIXMAP_CHANGED" }
func (InformationChangedReply) ReplyName() string       { return "INFORMATION_CHANGED" }
func (ChildrenChangedReply) ReplyName() string          { return "CHILDREN_CHANGED" }
func (StatePreviewImageChangedReply) ReplyName() string { return "STATE_PREVIEW_IMAGE_CHANGED" }
func (ComponentCompletedReply) ReplyName() string       { return "COMPONENT_COMPLETED" }
func (DebugOutputReply) ReplyName() string              { return "DEBUG_OUTPUT" }
func (TokenReply) ReplyName() string                    { return "TOKEN" }
func (ChangeSelectionReply) ReplyName() string          { return "CHANGE_SELECTION" }
func (CapturedDataReply) ReplyName() string             { return "CAPTURED_DATA" }
func (SceneCreatedReply) ReplyName() string             { return "SCENE_CREATED" }
func (PuppetToCreatorReply) ReplyName() string          { return "PUPPET_TO_CREATOR" }

var replyTypes = map[string]func() Reply{}

func registerReply(f func() Reply) {
	replyTypes[f().ReplyName()] = f
}

func init() {
	registerReply(func() Reply { return &ValuesChangedReply{} })
	registerReply(func() Reply { return &ValuesModifiedReply{} })
	registerReply(func() Reply { return &PixmapChangedReply{} })
	registerReply(func() Reply { return &InformationChangedReply{} })
	registerReply(func() Reply { return &ChildrenChangedReply{} })
	registerReply(func() Reply { return &StatePreviewImageChangedReply{} })
	registerReply(func() Reply { return &ComponentCompletedReply{} })
	registerReply(func() Reply { return &DebugOutputReply{} })
	registerReply(func() Reply { return &TokenReply{} })
	registerReply(func() Reply { return &ChangeSelectionReply{} })
	registerReply(func() Reply { return &CapturedDataReply{} })
	registerReply(func() Reply { return &SceneCreatedReply{} })
	registerReply(func() Reply { return &PuppetToCreatorReply{} })
}

// DecodeReply decodes the payload of the reply called name. The returned
// Reply is a pointer to one of the reply types of this package.
func DecodeReply(name string, data json.RawMessage) (Reply, error) {
	f, ok := replyTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReply, name)
	}
	reply := f()
	if len(data) == 0 || string(data) == "null" {
		return reply, nil
	}
	if err := json.Unmarshal(data, reply); err != nil {
		return nil, fmt.Errorf("instance: decoding %s: %w", name, err)
	}
	return reply, nil
}

// Payloads of PuppetToCreatorReply.
const (
	Edit3DToolStateType             = "Edit3DToolState"
	Render3DViewType                = "Render3DView"
	ActiveSceneChangedType          = "ActiveSceneChanged"
	RenderModelNodePreviewImageType = "RenderModelNodePreviewImage"
	Import3DSupportType             = "Import3DSupport"
	NodeAtPosType                   = "NodeAtPos"
)

type Edit3DToolState struct {
	SceneID int32                  `json:"sceneId"`
	State   map[string]interface{} `json:"state"`
}

type Render3DView struct {
	Image []byte `json:"image"`
}

type ActiveSceneChanged struct {
	SceneID int32 `json:"sceneId"`
}

type ModelNodePreviewImage struct {
	RequestID  uuid.UUID `json:"requestId"`
	InstanceID int32     `json:"instanceId"`
	Image      []byte    `json:"image"`
}

type NodeAtPos struct {
	InstanceID int32       `json:"instanceId"`
	Position   model.Point `json:"position"`
}
