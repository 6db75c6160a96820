package model

// AuxiliaryDataType is the category of an auxiliary data key.
type AuxiliaryDataType int

const (
	NoneAuxiliary AuxiliaryDataType = iota
	// TemporaryAuxiliary data is never written to the document.
	TemporaryAuxiliary
	// DocumentAuxiliary data is persisted with the document by the rewriter.
	DocumentAuxiliary
	// NodeInstancePropertyOverwriteAuxiliary data replaces a property value
	// in the renderer without touching the document.
	NodeInstancePropertyOverwriteAuxiliary
	// NodeInstanceAuxiliary data is forwarded to the renderer as is.
	NodeInstanceAuxiliary
)

func (t AuxiliaryDataType) String() string {
	switch t {
	case TemporaryAuxiliary:
		return "temporary"
	case DocumentAuxiliary:
		return "document"
	case NodeInstancePropertyOverwriteAuxiliary:
		return "nodeInstancePropertyOverwrite"
	case NodeInstanceAuxiliary:
		return "nodeInstanceAuxiliary"
	default:
		return "none"
	}
}

// AuxiliaryDataKey identifies one auxiliary datum on a node.
type AuxiliaryDataKey struct {
	Type AuxiliaryDataType
	Name string
}

// Well known keys.
var (
	LockedKey      = AuxiliaryDataKey{DocumentAuxiliary, "locked"}
	InvisibleKey   = AuxiliaryDataKey{DocumentAuxiliary, "invisible"}
	LanguageKey    = AuxiliaryDataKey{TemporaryAuxiliary, "language"}
	PreviewSizeKey = AuxiliaryDataKey{TemporaryAuxiliary, "previewSize"}
)

// AuxiliaryData is one key/value pair, as returned by
// ModelNode.AuxiliaryDataList.
type AuxiliaryData struct {
	Key   AuxiliaryDataKey
	Value interface{}
}
