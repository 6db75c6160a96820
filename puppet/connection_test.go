package puppet

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct {
	Number int `json:"number"`
}

func (pingCommand) CommandName() string { return "ping" }

type frame struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"`
	Session string          `json:"session"`
}

func readMessage(rd *bufio.Reader) (frame, error) {
	var f frame
	payload, err := readFrame(rd)
	if err != nil {
		return f, err
	}
	return f, json.Unmarshal(payload, &f)
}

func writeMessage(w io.Writer, command string, data interface{}) error {
	buf, err := json.Marshal(struct {
		Command string      `json:"command"`
		Data    interface{} `json:"data"`
	}{command, data})
	if err != nil {
		return err
	}
	return writeFrame(w, buf)
}

// renderer is the far end of a connection under test.
type renderer struct {
	commands chan frame
	replies  *io.PipeWriter
}

type recordedReply struct {
	name string
	data string
}

type replyRecorder struct {
	mu      sync.Mutex
	replies []recordedReply
}

func (r *replyRecorder) HandleReply(name string, data json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, recordedReply{name, string(data)})
	if name == "bad" {
		return fmt.Errorf("bad reply")
	}
	return nil
}

func (r *replyRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, reply := range r.replies {
		names = append(names, reply.name)
	}
	return names
}

func newTestConnection(t *testing.T, handler ReplyHandler) (*Connection, *renderer) {
	t.Helper()
	cmdR, cmdW := io.Pipe()
	replyR, replyW := io.Pipe()

	r := &renderer{commands: make(chan frame, 16), replies: replyW}
	go func() {
		defer close(r.commands)
		rd := bufio.NewReader(cmdR)
		for {
			f, err := readMessage(rd)
			if err != nil {
				return
			}
			r.commands <- f
		}
	}()

	c := NewConnectionSplit(replyR, cmdW, handler)
	t.Cleanup(func() {
		c.Close()
		replyW.Close()
	})
	return c, r
}

func nextCommand(t *testing.T, r *renderer) frame {
	t.Helper()
	select {
	case f, ok := <-r.commands:
		require.True(t, ok, "command stream closed")
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a command")
		return frame{}
	}
}

func TestHandshakeAndSend(t *testing.T) {
	c, r := newTestConnection(t, &replyRecorder{})

	require.NoError(t, c.Send(pingCommand{Number: 7}))

	version := nextCommand(t, r)
	assert.Equal(t, "VERSION", version.Command)
	assert.Equal(t, ProtocolVersion, version.Version)
	assert.Equal(t, c.Session().String(), version.Session)
	assert.True(t, c.Started())

	ping := nextCommand(t, r)
	assert.Equal(t, "ping", ping.Command)
	assert.JSONEq(t, `{"number":7}`, string(ping.Data))
}

func TestProcessDeliversReplies(t *testing.T) {
	rec := &replyRecorder{}
	c, r := newTestConnection(t, rec)
	signal := c.ProcessSignal()
	nextCommand(t, r)

	go func() {
		writeMessage(r.replies, "sceneCreated", struct{}{})
		writeMessage(r.replies, "bad", nil)
		writeMessage(r.replies, "completed", map[string]interface{}{"instanceIds": []int{1, 2}})
	}()

	for len(rec.names()) < 3 {
		select {
		case <-signal:
			require.NoError(t, c.Process())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for replies")
		}
	}

	assert.Equal(t, []string{"sceneCreated", "bad", "completed"}, rec.names())
	assert.JSONEq(t, `{"instanceIds":[1,2]}`, rec.replies[2].data)
	assert.NoError(t, c.Err(), "handler errors are not fatal")
}

func TestInvalidFrameIsFatal(t *testing.T) {
	c, r := newTestConnection(t, &replyRecorder{})
	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	nextCommand(t, r)

	go fmt.Fprint(r.replies, "x {}\n")

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read")
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Error(t, c.Send(pingCommand{}))
}

func TestRunLockable(t *testing.T) {
	rec := &replyRecorder{}
	c, r := newTestConnection(t, rec)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	posted := make(chan func(), 1)
	lock, errs := c.RunLockable(ctx, posted)
	nextCommand(t, r)

	lock.Lock()
	go writeMessage(r.replies, "tokenChanged", nil)
	ran := make(chan struct{})
	posted <- func() { close(ran) }
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.names(), "no reply is handled while locked")
	select {
	case <-ran:
		t.Fatal("posted function ran while locked")
	default:
	}
	lock.Unlock()

	require.Eventually(t, func() bool { return len(rec.names()) == 1 }, 2*time.Second, 10*time.Millisecond)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted function did not run")
	}

	cancel()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunLockable did not stop")
	}
}

func TestReplyHandlerFunc(t *testing.T) {
	var got string
	h := ReplyHandlerFunc(func(name string, data json.RawMessage) error {
		got = name
		return nil
	})
	require.NoError(t, h.HandleReply("x", nil))
	assert.Equal(t, "x", got)
}
