package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"lane-dash/server/logging"
)

// JSON emits newline-delimited structured events.
type JSON struct {
	mu      sync.Mutex
	writer  *bufio.Writer
	encoder *json.Encoder
	file    *os.File
}

// NewJSON constructs a JSON sink writing to the provided io.Writer.
func NewJSON(w io.Writer) *JSON {
	if w == nil {
		w = io.Discard
	}
	buf := bufio.NewWriter(w)
	return &JSON{writer: buf, encoder: json.NewEncoder(buf)}
}

// NewJSONFile opens (or creates) an NDJSON file in append mode.
func NewJSONFile(path string) (*JSON, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	sink := NewJSON(file)
	sink.file = file
	return sink, nil
}

func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(event); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
