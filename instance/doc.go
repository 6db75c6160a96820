// Package instance keeps a renderer's scene in sync with a document model.
//
// NodeInstanceView occupies the node instance view slot of a model.Model. When attached
// it starts a renderer through a PuppetStarter and sends it the whole document as one
// CreateSceneCommand; afterwards every change of the model is forwarded as an incremental
// command. Renderer replies (geometry, pixmaps, errors, property values) update a
// NodeInstance record per node and are announced to the feature views as instance
// notifications.
//
// The renderer is an ordinary puppet.Connection, usually to a child process started by a
// puppet.Launcher:
//
//  launcher := &puppet.Launcher{Path: "qml2puppet"}
//  v := instance.NewNodeInstanceView(instance.PuppetStarterFunc(
//      func(replies puppet.ReplyHandler) (instance.CommandSink, error) {
//          p, err := launcher.Start(replies)
//          if err != nil {
//              return nil, err
//          }
//          return p, nil
//      }))
//  m.SetNodeInstanceView(v)
//  err := launcher.Serve(ctx, v.Posted(), v.HandleCrash)
//
// A renderer reached over some other stream is wrapped in a puppet.Connection by the starter.
// Its replies and the delayed work of the mirror can then run on a goroutine of their own,
// with every edit of the model made while holding the returned lock:
//
//  lock, errs := conn.RunLockable(ctx, v.Posted())
//  lock.Lock()
//  node.VariantProperty("width").SetValue(100)
//  lock.Unlock()
//
// A renderer that crashes is restarted, unless it crashed within DefaultCrashThreshold of
// the previous crash; then the document gets an error message instead. Changes the renderer
// cannot apply to a live scene (type and import changes) restart it after a short delay.
// Delayed work never touches the model from a timer goroutine: it is queued on Posted, or
// handed to the function given with WithPoster, and runs when the owner of the model picks
// it up.
package instance
