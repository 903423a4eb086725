package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	dataPrefix = "data: "
	doneToken  = "[DONE]"

	readBufferSize = 32 * 1024
)

// wireFrame is the JSON shape of one "data: ..." frame.
type wireFrame struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Delta        Delta   `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage    `json:"usage"`
	Error *APIError `json:"error"`
}

// DecodeChunk decodes one raw read of a chat completion stream. The chunk
// may hold any number of complete frames; they are returned in arrival
// order. Frames are not buffered across calls, so a frame split between two
// reads fails to decode.
func DecodeChunk(raw []byte) ([]StreamChunk, error) {
	text := strings.ReplaceAll(string(raw), "\r", "")
	text = strings.ReplaceAll(text, "\n", "")

	var chunks []StreamChunk
	for _, segment := range strings.Split(text, dataPrefix) {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == doneToken {
			continue
		}

		chunk, err := decodeFrame(segment)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func decodeFrame(payload string) (StreamChunk, error) {
	var frame wireFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		return StreamChunk{}, fmt.Errorf("failed to decode stream frame: %w", err)
	}

	if frame.Error != nil {
		return StreamChunk{ID: frame.ID, Model: frame.Model, Err: frame.Error}, nil
	}
	if frame.Choices == nil && frame.Usage == nil {
		return StreamChunk{}, fmt.Errorf("%w: %s", ErrMalformedFrame, payload)
	}

	chunk := StreamChunk{
		ID:    frame.ID,
		Model: frame.Model,
		Usage: frame.Usage,
	}
	if len(frame.Choices) > 0 {
		chunk.Delta = frame.Choices[0].Delta
		if frame.Choices[0].FinishReason != nil {
			chunk.FinishReason = *frame.Choices[0].FinishReason
		}
	}
	return chunk, nil
}

// Stream reads a streamed chat completion body one raw read at a time.
type Stream struct {
	body io.ReadCloser
	buf  []byte
	err  error

	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps a response body.
func NewStream(body io.ReadCloser) *Stream {
	return &Stream{
		body: body,
		buf:  make([]byte, readBufferSize),
	}
}

// Next reads from the body until at least one frame is decoded and returns
// the frames of that read. It returns io.EOF once the body is exhausted.
func (s *Stream) Next() ([]StreamChunk, error) {
	for {
		if s.err != nil {
			return nil, s.err
		}

		n, err := s.body.Read(s.buf)
		if err == io.EOF {
			s.err = io.EOF
		} else if err != nil {
			s.err = fmt.Errorf("failed to read stream: %w", err)
		}

		if n == 0 {
			continue
		}

		chunks, decodeErr := DecodeChunk(s.buf[:n])
		if decodeErr != nil {
			s.err = decodeErr
			return nil, decodeErr
		}
		if len(chunks) > 0 {
			return chunks, nil
		}
	}
}

// Close releases the underlying body. It is safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
