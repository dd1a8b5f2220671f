package upload

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// bodyPart describes one part of a crafted multipart body. A part with an
// empty fileName is written as an ordinary form field.
type bodyPart struct {
	field    string
	fileName string
	content  []byte
}

func buildBody(t *testing.T, parts []bodyPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.fileName == "" {
			if err := w.WriteField(p.field, string(p.content)); err != nil {
				t.Fatalf("WriteField() error: %v", err)
			}
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.fileName)
		if err != nil {
			t.Fatalf("CreateFormFile() error: %v", err)
		}
		if _, err := fw.Write(p.content); err != nil {
			t.Fatalf("writing part content: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// trackingReader counts the bytes the parser consumes so tests can verify
// the body was fully drained even on failures.
type trackingReader struct {
	r io.Reader
	n int64
}

func (tr *trackingReader) Read(p []byte) (int, error) {
	n, err := tr.r.Read(p)
	tr.n += int64(n)
	return n, err
}

func newUploadRequest(body io.Reader, contentType string) (*http.Request, *trackingReader) {
	tr := &trackingReader{r: body}
	req := httptest.NewRequest(http.MethodPost, "/api/convert/mp3", tr)
	req.Header.Set("Content-Type", contentType)
	return req, tr
}

func TestIngestSingleFile(t *testing.T) {
	content := []byte("hello converter, this is a small test payload")
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "song.wav", content: content},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.wav")

	res, err := NewIngestor(1024).Ingest(req, dest)
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}

	if res.OriginalFilename != "song.wav" {
		t.Errorf("OriginalFilename = %q, want %q", res.OriginalFilename, "song.wav")
	}
	if res.SavedPath != dest {
		t.Errorf("SavedPath = %q, want %q", res.SavedPath, dest)
	}
	if res.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", res.Size, len(content))
	}
	if res.DetectedType == "" {
		t.Error("DetectedType is empty, want a sniffed type")
	}

	saved, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Errorf("saved bytes differ from uploaded bytes")
	}
}

func TestIngestExactlyAtLimit(t *testing.T) {
	content := []byte("12345")
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "exact.bin", content: content},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	res, err := NewIngestor(5).Ingest(req, dest)
	if err != nil {
		t.Fatalf("Ingest() at exactly maxBytes should succeed, got %v", err)
	}
	if res.Size != 5 {
		t.Errorf("Size = %d, want 5", res.Size)
	}
}

func TestIngestFileTooLarge(t *testing.T) {
	// 10 bytes against a 5 byte limit
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "big.bin", content: []byte("0123456789")},
	})
	total := int64(body.Len())
	req, tr := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	_, err := NewIngestor(5).Ingest(req, dest)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Ingest() err = %v, want ErrFileTooLarge", err)
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("partial file still on disk, stat err = %v", statErr)
	}
	if tr.n != total {
		t.Errorf("body not fully drained: read %d of %d bytes", tr.n, total)
	}
}

func TestIngestTooManyFiles(t *testing.T) {
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "first.bin", content: []byte("first file")},
		{field: "file2", fileName: "second.bin", content: []byte("second file")},
	})
	total := int64(body.Len())
	req, tr := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	_, err := NewIngestor(1024).Ingest(req, dest)
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("Ingest() err = %v, want ErrTooManyFiles", err)
	}

	// The first file completed before the second part arrived; neither may
	// survive the failure
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("first file still on disk, stat err = %v", statErr)
	}
	if tr.n != total {
		t.Errorf("body not fully drained: read %d of %d bytes", tr.n, total)
	}
}

func TestIngestOversizeThenSecondFile(t *testing.T) {
	// The limit failure comes first and must win over the extra file part
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "big.bin", content: bytes.Repeat([]byte("x"), 64)},
		{field: "more", fileName: "extra.bin", content: []byte("tail")},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	_, err := NewIngestor(16).Ingest(req, dest)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Ingest() err = %v, want ErrFileTooLarge (first fatal condition)", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("partial file still on disk, stat err = %v", statErr)
	}
}

func TestIngestNoFile(t *testing.T) {
	body, ctype := buildBody(t, []bodyPart{
		{field: "note", content: []byte("just a field")},
		{field: "other", content: []byte("another field")},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	_, err := NewIngestor(1024).Ingest(req, dest)
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("Ingest() err = %v, want ErrNoFile", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("no file was uploaded but something exists at dest")
	}
}

func TestIngestEmptyFile(t *testing.T) {
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "empty.bin", content: nil},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	_, err := NewIngestor(1024).Ingest(req, dest)
	if !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("Ingest() err = %v, want ErrEmptyUpload", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("empty file left on disk, stat err = %v", statErr)
	}
}

func TestIngestMalformed(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{
			name:        "Not multipart content type",
			body:        "plain text",
			contentType: "text/plain",
		},
		{
			name:        "Missing boundary parameter",
			body:        "whatever",
			contentType: "multipart/form-data",
		},
		{
			name:        "Garbage with declared boundary",
			body:        "this is not a multipart body at all",
			contentType: `multipart/form-data; boundary="xyzzy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := newUploadRequest(strings.NewReader(tt.body), tt.contentType)
			dest := filepath.Join(t.TempDir(), "in.bin")

			_, err := NewIngestor(1024).Ingest(req, dest)
			if !errors.Is(err, ErrMalformedUpload) {
				t.Fatalf("Ingest() err = %v, want ErrMalformedUpload", err)
			}
			if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
				t.Error("malformed upload left a file on disk")
			}
		})
	}
}

func TestIngestSkipsOrdinaryFields(t *testing.T) {
	content := []byte("file body")
	body, ctype := buildBody(t, []bodyPart{
		{field: "description", content: []byte("ignored")},
		{field: "file", fileName: "data.bin", content: content},
		{field: "trailer", content: []byte("also ignored")},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	res, err := NewIngestor(1024).Ingest(req, dest)
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}
	if res.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", res.Size, len(content))
	}
}

func TestIngestUnlimited(t *testing.T) {
	content := bytes.Repeat([]byte("a"), 1<<16)
	body, ctype := buildBody(t, []bodyPart{
		{field: "file", fileName: "big.bin", content: content},
	})
	req, _ := newUploadRequest(body, ctype)
	dest := filepath.Join(t.TempDir(), "in.bin")

	res, err := NewIngestor(0).Ingest(req, dest)
	if err != nil {
		t.Fatalf("Ingest() with no limit errored: %v", err)
	}
	if res.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", res.Size, len(content))
	}
}

func TestLimitWriterCountsEverything(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "out.bin"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	defer f.Close()

	s := &session{destPath: f.Name(), file: f, filesSeen: 1}
	lw := &limitWriter{sess: s, max: 8}

	for _, chunk := range []string{"12345", "6789A", "BCDEF"} {
		if _, err := lw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}

	if s.received != 15 {
		t.Errorf("received = %d, want 15", s.received)
	}
	if !s.limitHit {
		t.Error("limitHit = false, want true after crossing max")
	}
	if s.written > 8 {
		t.Errorf("written = %d, must never exceed the limit", s.written)
	}
}
