package model

import "sync"

// MetaInfo answers questions about QML types. The model never changes it.
type MetaInfo interface {
	// HasType reports whether typeName is a known library type.
	HasType(typeName string) bool
	// IsSubclassOf reports whether typeName is baseName or derives from it.
	IsSubclassOf(typeName, baseName string) bool
	// DefaultPropertyName returns the default property of typeName, or ""
	// if it has none.
	DefaultPropertyName(typeName string) string
	// IsGraphicalItem reports whether instances of typeName are visual items.
	IsGraphicalItem(typeName string) bool
	// TypeVersion returns the version typeName was registered with.
	TypeVersion(typeName string) (major, minor int, ok bool)
}

// TypeInfo describes one type for StaticMetaInfo.
type TypeInfo struct {
	Name            string
	Base            string
	DefaultProperty string
	Graphical       bool
	MajorVersion    int
	MinorVersion    int
	// Properties maps property names to their type names.
	Properties map[string]string
}

// StaticMetaInfo is a MetaInfo over a fixed set of registered types.
// Unregistered types are unknown; their default property is "data".
type StaticMetaInfo struct {
	mu    sync.RWMutex
	types map[string]TypeInfo
}

func NewStaticMetaInfo(types ...TypeInfo) *StaticMetaInfo {
	mi := &StaticMetaInfo{types: make(map[string]TypeInfo)}
	for _, t := range types {
		mi.Register(t)
	}
	return mi
}

func (mi *StaticMetaInfo) Register(t TypeInfo) {
	mi.mu.Lock()
	defer mi.mu.Unlock()
	mi.types[t.Name] = t
}

func (mi *StaticMetaInfo) lookup(typeName string) (TypeInfo, bool) {
	mi.mu.RLock()
	defer mi.mu.RUnlock()
	t, ok := mi.types[typeName]
	return t, ok
}

// Type returns the registered description of typeName.
func (mi *StaticMetaInfo) Type(typeName string) (TypeInfo, bool) {
	return mi.lookup(typeName)
}

func (mi *StaticMetaInfo) HasType(typeName string) bool {
	_, ok := mi.lookup(typeName)
	return ok
}

func (mi *StaticMetaInfo) IsSubclassOf(typeName, baseName string) bool {
	// Bounded walk; a misconfigured base chain must not hang the caller.
	for i := 0; i < 64 && typeName != ""; i++ {
		if typeName == baseName {
			return true
		}
		t, ok := mi.lookup(typeName)
		if !ok {
			return false
		}
		typeName = t.Base
	}
	return false
}

func (mi *StaticMetaInfo) DefaultPropertyName(typeName string) string {
	for i := 0; i < 64 && typeName != ""; i++ {
		t, ok := mi.lookup(typeName)
		if !ok {
			break
		}
		if t.DefaultProperty != "" {
			return t.DefaultProperty
		}
		typeName = t.Base
	}
	return "data"
}

func (mi *StaticMetaInfo) IsGraphicalItem(typeName string) bool {
	for i := 0; i < 64 && typeName != ""; i++ {
		t, ok := mi.lookup(typeName)
		if !ok {
			return false
		}
		if t.Graphical {
			return true
		}
		typeName = t.Base
	}
	return false
}

func (mi *StaticMetaInfo) TypeVersion(typeName string) (int, int, bool) {
	t, ok := mi.lookup(typeName)
	if !ok {
		return 0, 0, false
	}
	return t.MajorVersion, t.MinorVersion, true
}

// QtQuickMetaInfo returns a StaticMetaInfo with a small set of common
// QtQuick types registered.
func QtQuickMetaInfo() *StaticMetaInfo {
	return NewStaticMetaInfo(
		TypeInfo{Name: "QtQml.QtObject", MajorVersion: 2, MinorVersion: 15},
		TypeInfo{Name: "QtQuick.Item", Base: "QtQml.QtObject", DefaultProperty: "data", Graphical: true, MajorVersion: 2, MinorVersion: 15,
			Properties: map[string]string{"x": "real", "y": "real", "width": "real", "height": "real", "visible": "bool", "opacity": "real"}},
		TypeInfo{Name: "QtQuick.Rectangle", Base: "QtQuick.Item", Graphical: true, MajorVersion: 2, MinorVersion: 15,
			Properties: map[string]string{"color": "color", "radius": "real"}},
		TypeInfo{Name: "QtQuick.Text", Base: "QtQuick.Item", Graphical: true, MajorVersion: 2, MinorVersion: 15,
			Properties: map[string]string{"text": "string", "color": "color"}},
		TypeInfo{Name: "QtQuick.State", Base: "QtQml.QtObject", DefaultProperty: "changes", MajorVersion: 2, MinorVersion: 15},
		TypeInfo{Name: "QtQuick.PropertyChanges", Base: "QtQml.QtObject", MajorVersion: 2, MinorVersion: 15},
		TypeInfo{Name: "QtQuick.ListModel", Base: "QtQml.QtObject", DefaultProperty: "children", MajorVersion: 2, MinorVersion: 15},
		TypeInfo{Name: "QtQuick.ListElement", Base: "QtQml.QtObject", MajorVersion: 2, MinorVersion: 15},
		TypeInfo{Name: "QtQuick.Timeline.Timeline", Base: "QtQml.QtObject", DefaultProperty: "keyframeGroups", MajorVersion: 1, MinorVersion: 0},
	)
}
