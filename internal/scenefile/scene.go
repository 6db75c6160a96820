package scenefile

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/CrimsonAS/qmlmodel/internal/ctxlog"
	"github.com/CrimsonAS/qmlmodel/model"
)

// Scene is a decoded scene file.
type Scene struct {
	Filename string
	FileURL  string
	Imports  []model.Import
	Types    []model.TypeInfo
	Root     *Node
}

// Node describes one node of the tree.
type Node struct {
	TypeName       string
	Major, Minor   int
	ID             string
	// ParentProperty is the property of the parent holding the node; empty
	// means the default property.
	ParentProperty string
	Single         bool
	Source         string
	Properties     []model.PropertyValue
	Bindings       []NamedText
	Signals        []NamedText
	Auxiliary      []model.AuxiliaryData
	Children       []*Node
}

// NamedText is a binding expression or signal handler source.
type NamedText struct {
	Name string
	Text string
}

type hclFile struct {
	FileURL string     `hcl:"file_url,optional"`
	Imports []string   `hcl:"imports,optional"`
	Types   []*hclType `hcl:"type,block"`
	Nodes   []*hclNode `hcl:"node,block"`
}

type hclType struct {
	Name            string            `hcl:"name,label"`
	Base            string            `hcl:"base,optional"`
	DefaultProperty string            `hcl:"default_property,optional"`
	Graphical       bool              `hcl:"graphical,optional"`
	Version         string            `hcl:"version,optional"`
	Properties      map[string]string `hcl:"properties,optional"`
}

type hclNode struct {
	TypeName   string            `hcl:"type,label"`
	ID         string            `hcl:"id,optional"`
	Version    string            `hcl:"version,optional"`
	Property   string            `hcl:"property,optional"`
	Single     bool              `hcl:"single,optional"`
	Source     string            `hcl:"source,optional"`
	Properties *cty.Value        `hcl:"properties,optional"`
	Bindings   map[string]string `hcl:"bindings,optional"`
	Signals    map[string]string `hcl:"signals,optional"`
	Auxiliary  *cty.Value        `hcl:"auxiliary,optional"`
	Children   []*hclNode        `hcl:"child,block"`
}

// Load parses the scene file at path.
func Load(ctx context.Context, path string) (*Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("scenefile: loading", "path", path)

	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, diags)
	}
	scene, err := decode(path, file.Body)
	if err != nil {
		return nil, err
	}
	logger.Debug("scenefile: loaded", "path", path, "types", len(scene.Types))
	return scene, nil
}

// Parse parses scene file source. filename is used in error messages.
func Parse(src []byte, filename string) (*Scene, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", filename, diags)
	}
	return decode(filename, file.Body)
}

func decode(filename string, body hcl.Body) (*Scene, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scene file %s: %w", filename, diags)
	}
	if len(parsed.Nodes) != 1 {
		return nil, fmt.Errorf("scene file %s: want exactly one node block, got %d", filename, len(parsed.Nodes))
	}

	scene := &Scene{Filename: filename, FileURL: parsed.FileURL}
	for _, text := range parsed.Imports {
		imp := model.ParseImport(text)
		if imp.URL == "" && imp.File == "" {
			return nil, fmt.Errorf("scene file %s: empty import", filename)
		}
		scene.Imports = append(scene.Imports, imp)
	}
	for _, t := range parsed.Types {
		major, minor, err := parseVersion(t.Version)
		if err != nil {
			return nil, fmt.Errorf("scene file %s: type %q: %w", filename, t.Name, err)
		}
		scene.Types = append(scene.Types, model.TypeInfo{
			Name:            t.Name,
			Base:            t.Base,
			DefaultProperty: t.DefaultProperty,
			Graphical:       t.Graphical,
			MajorVersion:    major,
			MinorVersion:    minor,
			Properties:      t.Properties,
		})
	}

	root, err := decodeNode(parsed.Nodes[0])
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", filename, err)
	}
	scene.Root = root
	return scene, nil
}

func decodeNode(n *hclNode) (*Node, error) {
	major, minor, err := parseVersion(n.Version)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.TypeName, err)
	}
	node := &Node{
		TypeName:       n.TypeName,
		Major:          major,
		Minor:          minor,
		ID:             n.ID,
		ParentProperty: n.Property,
		Single:         n.Single,
		Source:         n.Source,
		Bindings:       sortedTexts(n.Bindings),
		Signals:        sortedTexts(n.Signals),
	}

	if n.Properties != nil {
		values, err := objectValues(*n.Properties)
		if err != nil {
			return nil, fmt.Errorf("node %q: properties: %w", n.TypeName, err)
		}
		for _, kv := range values {
			node.Properties = append(node.Properties, model.PropertyValue{Name: kv.name, Value: kv.value})
		}
	}
	if n.Auxiliary != nil {
		values, err := objectValues(*n.Auxiliary)
		if err != nil {
			return nil, fmt.Errorf("node %q: auxiliary: %w", n.TypeName, err)
		}
		for _, kv := range values {
			key, err := ParseAuxiliaryKey(kv.name)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", n.TypeName, err)
			}
			node.Auxiliary = append(node.Auxiliary, model.AuxiliaryData{Key: key, Value: kv.value})
		}
	}

	for _, c := range n.Children {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// parseVersion parses "major.minor". The empty string is version 0.0,
// which the builder replaces by the version the meta info registers.
func parseVersion(v string) (int, int, error) {
	if v == "" {
		return 0, 0, nil
	}
	majorText, minorText, _ := strings.Cut(v, ".")
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q", v)
	}
	minor := 0
	if minorText != "" {
		if minor, err = strconv.Atoi(minorText); err != nil {
			return 0, 0, fmt.Errorf("invalid version %q", v)
		}
	}
	return major, minor, nil
}

// ParseAuxiliaryKey parses an auxiliary key. The well known names (locked,
// invisible, language, previewSize) map to their keys; other keys are
// written "category:name", or just "name" for document data.
func ParseAuxiliaryKey(s string) (model.AuxiliaryDataKey, error) {
	for _, key := range []model.AuxiliaryDataKey{model.LockedKey, model.InvisibleKey, model.LanguageKey, model.PreviewSizeKey} {
		if key.Name == s {
			return key, nil
		}
	}
	category, name, found := strings.Cut(s, ":")
	if !found {
		return model.AuxiliaryDataKey{Type: model.DocumentAuxiliary, Name: s}, nil
	}
	for t := model.TemporaryAuxiliary; t <= model.NodeInstanceAuxiliary; t++ {
		if t.String() == category && name != "" {
			return model.AuxiliaryDataKey{Type: t, Name: name}, nil
		}
	}
	return model.AuxiliaryDataKey{}, fmt.Errorf("invalid auxiliary key %q", s)
}

func sortedTexts(m map[string]string) []NamedText {
	if len(m) == 0 {
		return nil
	}
	texts := make([]NamedText, 0, len(m))
	for name, text := range m {
		texts = append(texts, NamedText{Name: name, Text: text})
	}
	sort.Slice(texts, func(i, j int) bool { return texts[i].Name < texts[j].Name })
	return texts
}
