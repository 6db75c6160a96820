package model

import "strings"

// Import is one import statement of the document.
type Import struct {
	// URL is a module import ("QtQuick"); File is a path import ("../Controls").
	URL     string `json:"url,omitempty"`
	File    string `json:"file,omitempty"`
	Version string `json:"version,omitempty"`
	Alias   string `json:"alias,omitempty"`
}

func (i Import) IsLibrary() bool {
	return i.URL != ""
}

func (i Import) String() string {
	var b strings.Builder
	if i.IsLibrary() {
		b.WriteString(i.URL)
	} else {
		b.WriteString(`"` + i.File + `"`)
	}
	if i.Version != "" {
		b.WriteString(" " + i.Version)
	}
	if i.Alias != "" {
		b.WriteString(" as " + i.Alias)
	}
	return b.String()
}

// ParseImport parses the text after the import keyword.
func ParseImport(s string) Import {
	var imp Import
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return imp
	}
	if strings.HasPrefix(fields[0], `"`) {
		imp.File = strings.Trim(fields[0], `"`)
	} else {
		imp.URL = fields[0]
	}
	rest := fields[1:]
	if len(rest) > 0 && rest[0] != "as" {
		imp.Version = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 1 && rest[0] == "as" {
		imp.Alias = rest[1]
	}
	return imp
}

func containsImport(list []Import, imp Import) bool {
	for _, i := range list {
		if i == imp {
			return true
		}
	}
	return false
}
