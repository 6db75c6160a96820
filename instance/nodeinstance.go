package instance

import (
	"reflect"

	"github.com/CrimsonAS/qmlmodel/model"
)

// NodeInstance is what the mirror knows about the renderer side instance
// of one node. Geometry and flags come from renderer replies; Properties
// holds the last value sent for or reported by each property.
type NodeInstance struct {
	InternalID int32
	TypeName   string

	Position                model.Point
	Size                    model.Size
	BoundingRect            model.Rect
	ContentItemBoundingRect model.Rect
	ParentInstanceID        int32

	IsMovable   bool
	IsResizable bool
	HasContent  bool
	HasAnchors  bool
	Completed   bool

	// InstanceTypes maps property names to the type the renderer reported
	// for them.
	InstanceTypes map[string]string
	Properties    map[string]interface{}
	Children      []int32

	// Error is the last error the renderer reported for this instance.
	Error         string
	Pixmap        []byte
	PreviewPixmap []byte

	// DirectUpdates is set while the node is edited interactively; the
	// renderer is then not told about position changes of the node.
	DirectUpdates bool
}

func newNodeInstance(node model.ModelNode) *NodeInstance {
	return &NodeInstance{
		InternalID:       node.InternalID(),
		TypeName:         node.Type(),
		ParentInstanceID: -1,
		InstanceTypes:    make(map[string]string),
		Properties:       make(map[string]interface{}),
	}
}

// clone returns a deep enough copy for the snapshot cache: maps and slices
// are not shared with the live record.
func (i *NodeInstance) clone() *NodeInstance {
	c := *i
	c.InstanceTypes = make(map[string]string, len(i.InstanceTypes))
	for k, v := range i.InstanceTypes {
		c.InstanceTypes[k] = v
	}
	c.Properties = make(map[string]interface{}, len(i.Properties))
	for k, v := range i.Properties {
		c.Properties[k] = v
	}
	c.Children = append([]int32(nil), i.Children...)
	return &c
}

// Property returns the last known value of a property.
func (i *NodeInstance) Property(name string) (interface{}, bool) {
	v, ok := i.Properties[name]
	return v, ok
}

func (i *NodeInstance) InstanceType(property string) string {
	return i.InstanceTypes[property]
}

func (i *NodeInstance) HasError() bool {
	return i.Error != ""
}

func valuesEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
