package model

// MessageKind distinguishes document errors from warnings.
type MessageKind int

const (
	ErrorMessage MessageKind = iota
	WarningMessage
)

// DocumentMessage is a user visible message about the document.
type DocumentMessage struct {
	Kind        MessageKind
	Description string
	Line        int
	Column      int
}

// TextResetter is implemented by rewriter views able to restore the
// document text.
type TextResetter interface {
	ResetToLastGoodText(text string)
}

// AddDocumentError records an error message for the document.
func (m *Model) AddDocumentError(description string) {
	m.documentErrors = append(m.documentErrors, DocumentMessage{Kind: ErrorMessage, Description: description})
}

// AddDocumentWarning records a warning message for the document.
func (m *Model) AddDocumentWarning(description string) {
	m.documentWarnings = append(m.documentWarnings, DocumentMessage{Kind: WarningMessage, Description: description})
}

func (m *Model) DocumentErrors() []DocumentMessage {
	return append([]DocumentMessage(nil), m.documentErrors...)
}

func (m *Model) DocumentWarnings() []DocumentMessage {
	return append([]DocumentMessage(nil), m.documentWarnings...)
}

func (m *Model) ClearDocumentMessages() {
	m.documentErrors = nil
	m.documentWarnings = nil
}

// resetToLastGoodText is the recovery for a rejected rewrite. The graph is
// the source of truth and keeps the change; only the text is restored, and
// the failure is reported as a document error.
func (m *Model) resetToLastGoodText(err *RewriteError) {
	m.AddDocumentError(err.Description)
	if r, ok := m.rewriter.(TextResetter); ok {
		r.ResetToLastGoodText(err.LastGoodText)
	}
	m.logger.Warn("model: document text reset after rewrite failure", "description", err.Description)
}
