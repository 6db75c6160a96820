package instance

import (
	"reflect"
	"sort"

	"github.com/CrimsonAS/qmlmodel/model"
)

// valueTypeName returns the QML type name used to declare a property
// holding values like v.
func valueTypeName(v interface{}) string {
	if v == nil {
		return "var"
	}
	return reflectTypeName(reflect.TypeOf(v))
}

func reflectTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return reflectTypeName(t.Elem())

	case reflect.Bool:
		return "bool"

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"

	case reflect.Float32, reflect.Float64:
		return "real"

	case reflect.String:
		return "string"

	case reflect.Array, reflect.Slice:
		return "list"

	default:
		return "var"
	}
}

// mockupTypes describes every type used by nodes that the meta info does
// not know. Such types are usually components of the project; the renderer
// gets a placeholder with the properties the document uses.
func mockupTypes(mi model.MetaInfo, nodes []model.ModelNode) []MockupTypeContainer {
	byName := make(map[string]*MockupTypeContainer)
	for _, node := range nodes {
		typeName := node.Type()
		if mi.HasType(typeName) {
			continue
		}
		mockup := byName[typeName]
		if mockup == nil {
			mockup = &MockupTypeContainer{
				TypeName:     typeName,
				MajorVersion: node.MajorVersion(),
				MinorVersion: node.MinorVersion(),
				Properties:   make(map[string]string),
			}
			byName[typeName] = mockup
		}
		if parent := node.Parent(); parent.IsValid() && parent.IsGraphical() {
			mockup.IsItem = true
		}
		for _, p := range node.VariantProperties() {
			if _, exists := mockup.Properties[p.Name()]; !exists {
				mockup.Properties[p.Name()] = valueTypeName(p.Value())
			}
		}
		for _, p := range node.BindingProperties() {
			if _, exists := mockup.Properties[p.Name()]; !exists {
				mockup.Properties[p.Name()] = "var"
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	mockups := make([]MockupTypeContainer, 0, len(names))
	for _, name := range names {
		mockups = append(mockups, *byName[name])
	}
	return mockups
}
