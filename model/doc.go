// Package model is the in-memory document model of a visual QML editor.
//
// A QML document is represented as a tree of nodes. Every node has a type name
// and version, an optional id, an ordered set of named properties and a table
// of auxiliary data. Properties are one of six kinds: variant values, binding
// expressions, signal handlers, signal declarations, and the two node-owning
// kinds (a single child node or an ordered list of child nodes). A node is
// owned by exactly one node property at a time; removing that property or the
// owning node removes the whole subtree.
//
// Model
//
// Model owns every node. Nodes live in an arena indexed by a numeric internal
// id which is never reused, so references between nodes are plain ids and a
// stale reference can always be detected. The root node has internal id 0 and
// exists for the lifetime of the Model.
//
// All mutation goes through Model. Mutations never fail loudly for ordinary
// misuse: operating on a removed node, setting an empty expression, creating
// a cycle or assigning a duplicate id all silently do nothing.
//
// Views
//
// A View observes a Model. Any struct embedding ViewBase is a View; it
// overrides Notify to receive notifications and type-switches on the ones it
// is interested in:
//
//  type Outline struct {
//      model.ViewBase
//  }
//
//  func (o *Outline) Notify(n model.Notification) error {
//      switch n := n.(type) {
//      case model.NodeCreated:
//          ...
//      case model.NodeReparented:
//          ...
//      }
//      return nil
//  }
//
//  m.AttachView(&Outline{})
//
// Two view slots are special. The rewriter view keeps the source text in sync
// with the model; it is notified before every other view and is the only view
// whose errors matter: returning a *RewriteError asks the model to reset the
// document text to the last good state once the notification has reached
// everybody. The node instance view mirrors the model into an external
// renderer; depending on the notification it is notified either right after
// the rewriter or after all other views. Every other view is a plain feature
// view, notified in registration order.
//
// Handles
//
// ModelNode and the property types are small values pointing into a Model.
// They are scoped to the view that obtained them and may outlive the node they
// refer to; every accessor on a stale handle returns a zero value.
//
// Writes
//
// Only one mutation may be in flight at a time. A view that mutates the model
// from inside a notification triggers a panic carrying ErrReentrantWrite; the
// ordering guarantees of the notification protocol cannot hold otherwise.
package model
