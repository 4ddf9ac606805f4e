package frame

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

// ============================================================
// Encode / Write Tests
// ============================================================

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"empty payload", "", "0000"},
		{"short payload", "hello", "0005hello"},
		{"prompt", "username: ", "0010username: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_MaxPayload(t *testing.T) {
	got, err := Encode(bytes.Repeat([]byte("x"), MaxPayload))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got[:HeaderLen]) != "9999" {
		t.Errorf("header = %q, want 9999", got[:HeaderLen])
	}

	_, err = Encode(bytes.Repeat([]byte("x"), MaxPayload+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Encode() error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestWrite_TooLargeWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, make([]byte, MaxPayload+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Write() error = %v, want ErrPayloadTooLarge", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Write() wrote %d bytes, want 0", buf.Len())
	}
}

// ============================================================
// Read Tests
// ============================================================

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "single frame", input: "0005hello", want: "hello"},
		{name: "empty frame", input: "0000", want: ""},
		{name: "frame followed by more data", input: "0002hi0003bye", want: "hi"},
		{name: "clean end of stream", input: "", wantErr: io.EOF},
		{name: "truncated header", input: "00", wantErr: ErrProtocol},
		{name: "truncated payload", input: "0010short", wantErr: ErrProtocol},
		{name: "non numeric header", input: "abcdhello", wantErr: ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Read() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRead_TruncatedIsNotCleanEOF(t *testing.T) {
	_, err := Read(strings.NewReader("0010short"))
	if errors.Is(err, io.EOF) {
		t.Error("truncated payload must not be reported as clean io.EOF")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want io.ErrUnexpectedEOF in chain", err)
	}
}

func TestRead_Sequence(t *testing.T) {
	var buf bytes.Buffer
	messages := []string{"session token (blank if none): ", "", "alice", "pw1"}
	for _, m := range messages {
		if err := WriteString(&buf, m); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range messages {
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read() #%d error = %v", i, err)
		}
		if string(got) != want {
			t.Errorf("Read() #%d = %q, want %q", i, got, want)
		}
	}

	if _, err := Read(&buf); err != io.EOF {
		t.Errorf("Read() after last frame error = %v, want io.EOF", err)
	}
}

// ============================================================
// Writer Tests
// ============================================================

func TestWriter_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			payload := strings.Repeat(string(rune('a'+id)), 100+id)
			for j := 0; j < perWriter; j++ {
				if err := w.WriteString(payload); err != nil {
					t.Errorf("WriteString() error = %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	count := 0
	for {
		payload, err := Read(&buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if strings.Trim(string(payload), string(payload[:1])) != "" {
			t.Fatalf("frame contains interleaved bytes: %q", payload)
		}
		count++
	}

	if count != writers*perWriter {
		t.Errorf("read %d frames, want %d", count, writers*perWriter)
	}
}
