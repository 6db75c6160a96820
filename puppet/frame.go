package puppet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Messages in both directions are framed as "<length> <json>\n", where
// length is the byte count of the JSON text.

// maxFrameSize bounds the length a peer may announce.
const maxFrameSize = 256 << 20

func writeFrame(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "%d %s\n", len(payload), payload)
	return err
}

// readFrame reads the payload of one frame.
func readFrame(rd *bufio.Reader) ([]byte, error) {
	prefix, err := rd.ReadString(' ')
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	size, err := strconv.Atoi(strings.TrimSuffix(prefix, " "))
	if err != nil {
		return nil, fmt.Errorf("read invalid message: invalid size %q", prefix)
	}
	if size < 1 || size > maxFrameSize {
		return nil, fmt.Errorf("read invalid message: size %d out of range", size)
	}

	payload := make([]byte, size+1)
	if _, err := io.ReadFull(rd, payload); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	if payload[size] != '\n' {
		return nil, fmt.Errorf("read invalid message: expected terminating newline, read %q", payload[size])
	}
	return payload[:size], nil
}
