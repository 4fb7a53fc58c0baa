package rpc

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestReadMessage_ParsesBodyOfStatedLength(t *testing.T) {
	body := `{"jsonrpc":"2.0","method":"initialize","id":1}`
	raw := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
	r := NewReader(strings.NewReader(raw))

	got, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Fatalf("got %q, want %q", got, body)
	}
}

func TestReadMessage_IgnoresUnknownHeaders(t *testing.T) {
	body := `{}`
	raw := fmt.Sprintf("X-Custom: ignored\r\nContent-Length: %d\r\n\r\n%s", len(body), body)
	r := NewReader(strings.NewReader(raw))

	got, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Fatalf("got %q, want %q", got, body)
	}
}

func TestReadMessage_MissingContentLengthErrors(t *testing.T) {
	r := NewReader(strings.NewReader("\r\n{}"))
	if _, err := r.ReadMessage(); err == nil {
		t.Fatalf("expected an error for missing Content-Length")
	}
}

func TestReadMessage_SequentialMessages(t *testing.T) {
	a, b := `{"a":1}`, `{"b":2}`
	raw := fmt.Sprintf("Content-Length: %d\r\n\r\n%sContent-Length: %d\r\n\r\n%s", len(a), a, len(b), b)
	r := NewReader(strings.NewReader(raw))

	got1, err := r.ReadMessage()
	if err != nil || got1 != a {
		t.Fatalf("first message: got %q err %v", got1, err)
	}
	got2, err := r.ReadMessage()
	if err != nil || got2 != b {
		t.Fatalf("second message: got %q err %v", got2, err)
	}
}

func TestWriteMessage_EmitsContentLengthHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteMessage(`{"ok":true}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Content-Length: 11\r\n\r\n{\"ok\":true}"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteThenRead_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	body := `{"jsonrpc":"2.0","result":null}`
	if err := w.WriteMessage(body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewReader(&buf)
	got, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Fatalf("got %q, want %q", got, body)
	}
}
