// Package puppet talks to an out-of-process QML renderer, the "puppet".
//
// The editor never renders anything itself. A renderer process keeps a scene graph mirroring
// the document and answers with geometry, pixmaps, errors and property values. This package
// only moves messages; what the messages mean is up to the caller (see the instance package).
//
// Connection
//
// Connection carries commands to the renderer and replies back over a pair of streams. Every
// message is a JSON object framed as
//
//  <length> <json>\n
//
// where the JSON object has a "command" name and a "data" payload. The first message on every
// connection is VERSION, which carries the protocol version and a random session identifier.
//
// Replies are read by an internal goroutine and queued. They are only handed to the
// ReplyHandler during calls to Process (or Run), so an application controls exactly when
// replies touch its data:
//
//  c := puppet.NewConnectionSplit(in, out, handler)
//  for range c.ProcessSignal() {
//      if err := c.Process(); err != nil {
//          return err
//      }
//  }
//
// RunLockable processes replies and posted functions on a separate goroutine and returns a
// sync.Locker for exclusive access in between.
//
// Processes
//
// Launcher starts renderer executables with their stdin and stdout connected to a Connection,
// and Serve runs an owner loop that processes replies, runs posted functions and reports
// unexpected exits. Everything a reply handler does happens on the goroutine calling Serve.
package puppet
