package puppet

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	uuid "github.com/satori/go.uuid"
)

// ProtocolVersion is sent in the VERSION handshake.
const ProtocolVersion = 1

// ErrClosed is returned after Close.
var ErrClosed = errors.New("puppet: connection closed")

// Command is a message sent to the renderer.
type Command interface {
	CommandName() string
}

// ReplyHandler receives the replies of the renderer during Process.
type ReplyHandler interface {
	HandleReply(name string, data json.RawMessage) error
}

// ReplyHandlerFunc adapts a function to ReplyHandler.
type ReplyHandlerFunc func(name string, data json.RawMessage) error

func (f ReplyHandlerFunc) HandleReply(name string, data json.RawMessage) error {
	return f(name, data)
}

type Connection struct {
	in      io.ReadCloser
	out     io.WriteCloser
	handler ReplyHandler
	logger  *slog.Logger
	session uuid.UUID

	writeMu sync.Mutex
	errMu   sync.Mutex
	err     error

	started       bool
	processSignal chan struct{}
	queue         chan []byte
}

// Option configures a Connection.
type Option func(*Connection)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConnection creates a connection over a single bidirectional stream.
// Processing starts with the first call to Send, Process, Run or
// ProcessSignal.
func NewConnection(data io.ReadWriteCloser, handler ReplyHandler, opts ...Option) *Connection {
	return NewConnectionSplit(data, data, handler, opts...)
}

// NewConnectionSplit is equivalent to NewConnection, except that it uses
// separate streams for reading and writing, as with pipes or stdin and
// stdout.
func NewConnectionSplit(in io.ReadCloser, out io.WriteCloser, handler ReplyHandler, opts ...Option) *Connection {
	session, err := uuid.NewV4()
	if err != nil {
		session = uuid.Nil
	}
	c := &Connection{
		in:            in,
		out:           out,
		handler:       handler,
		logger:        slog.Default(),
		session:       session,
		processSignal: make(chan struct{}, 2),
		queue:         make(chan []byte, 128),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageBase struct {
	Command string `json:"command"`
}

// Session returns the identifier sent in the VERSION handshake.
func (c *Connection) Session() uuid.UUID {
	return c.session
}

// Err returns the error that ended the connection, if any.
func (c *Connection) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Connection) fatal(fmsg string, p ...interface{}) {
	err := fmt.Errorf(fmsg, p...)
	c.logger.Error("puppet: FATAL: " + err.Error())

	c.errMu.Lock()
	first := c.err == nil
	if first {
		c.err = err
	}
	c.errMu.Unlock()

	if first {
		c.in.Close()
		c.out.Close()
	}
}

func (c *Connection) warn(fmsg string, p ...interface{}) {
	c.logger.Warn("puppet: WARNING: " + fmt.Sprintf(fmsg, p...))
}

func (c *Connection) sendMessage(msg interface{}) error {
	if err := c.Err(); err != nil {
		return err
	}
	buf, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("puppet: message encoding failed: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := writeFrame(c.out, buf); err != nil {
		c.fatal("write error: %s", err)
		return c.Err()
	}
	return nil
}

// Send writes a command to the renderer. Commands are fire-and-forget;
// the answer, if any, arrives later as a reply.
func (c *Connection) Send(cmd Command) error {
	c.ensureHandler()
	return c.sendMessage(struct {
		messageBase
		Data Command `json:"data"`
	}{messageBase{cmd.CommandName()}, cmd})
}

// handle runs in an internal goroutine reading frames from in. Each
// frame is queued and announced on processSignal.
func (c *Connection) handle() {
	defer close(c.processSignal)
	defer close(c.queue)

	rd := bufio.NewReader(c.in)
	for c.Err() == nil {
		payload, err := readFrame(rd)
		if err != nil {
			if c.Err() == nil {
				c.fatal("%w", err)
			}
			return
		}
		c.queue <- payload
		c.processSignal <- struct{}{}
	}
}

// ensureHandler sends the handshake and starts the reader goroutine on
// first use.
func (c *Connection) ensureHandler() {
	if c.started {
		return
	}
	c.started = true

	c.sendMessage(struct {
		messageBase
		Version int    `json:"version"`
		Session string `json:"session"`
	}{messageBase{"VERSION"}, ProtocolVersion, c.session.String()})

	go c.handle()
}

func (c *Connection) Started() bool {
	return c.started
}

// Run processes replies until the connection is closed. The handler is
// called from the goroutine calling Run.
//
// Run is equivalent to a loop of Process and ProcessSignal.
func (c *Connection) Run() error {
	c.ensureHandler()
	for {
		if _, open := <-c.processSignal; !open {
			return c.Err()
		}
		if err := c.Process(); err != nil {
			return err
		}
	}
}

// Process hands every pending reply to the handler, but does not block to
// wait for new replies. ProcessSignal signals when there are replies to
// process.
//
// Handler errors are logged and do not end the connection; Process only
// returns the fatal error of the connection.
func (c *Connection) Process() error {
	c.ensureHandler()

	for {
		var data []byte
		select {
		case blob, open := <-c.queue:
			if !open {
				return c.Err()
			}
			data = blob
		default:
			return c.Err()
		}

		var msg struct {
			Command string          `json:"command"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			c.fatal("process invalid message: %s", err)
			continue
		}
		if msg.Command == "" {
			c.fatal("process invalid message: no command")
			continue
		}
		if c.handler == nil {
			c.warn("reply %s dropped: no handler", msg.Command)
			continue
		}
		if err := c.handler.HandleReply(msg.Command, msg.Data); err != nil {
			c.warn("reply %s failed: %s", msg.Command, err)
		}
	}
}

func (c *Connection) ProcessSignal() <-chan struct{} {
	c.ensureHandler()
	return c.processSignal
}

// Close closes both streams. Pending replies are dropped.
func (c *Connection) Close() error {
	c.errMu.Lock()
	first := c.err == nil
	if first {
		c.err = ErrClosed
	}
	c.errMu.Unlock()

	if !first {
		return nil
	}
	inErr := c.in.Close()
	outErr := c.out.Close()
	if inErr != nil {
		return inErr
	}
	return outErr
}
