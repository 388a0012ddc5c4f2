package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/webern/pkg/cache"
	"github.com/matzehuels/webern/pkg/errors"
)

func TestDirStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	loc, err := store.Put(context.Background(), "row.txt", []byte("grid"), "text/plain")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != filepath.Join(dir, "row.txt") {
		t.Errorf("location = %q", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "grid" {
		t.Errorf("content = %q, want grid", data)
	}
	info, _ := os.Stat(loc)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestDirStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	for _, name := range []string{"../row.txt", "a/b.txt", ".hidden", ""} {
		if _, err := store.Put(context.Background(), name, nil, ""); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("Put(%q) error = %v, want %v", name, err, errors.ErrCodeInvalidPath)
		}
	}
}

func TestStdoutStore(t *testing.T) {
	var buf bytes.Buffer
	store := NewStdoutStore(&buf)
	for _, s := range []string{"a", "b"} {
		loc, err := store.Put(context.Background(), "ignored", []byte(s), "")
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		if loc != Stdout {
			t.Errorf("location = %q, want %q", loc, Stdout)
		}
	}
	if buf.String() != "ab" {
		t.Errorf("output = %q, want ab", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStdoutStoreError(t *testing.T) {
	_, err := NewStdoutStore(failingWriter{}).Put(context.Background(), "x", []byte("x"), "")
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeStorage)
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw     string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{"s3://scores", "scores", "", false},
		{"s3://scores/", "scores", "", false},
		{"s3://scores/op24/matrix/", "scores", "op24/matrix", false},
		{"s3:///prefix", "", "", true},
		{"https://scores/x", "", "", true},
	}
	for _, tt := range tests {
		bucket, prefix, err := ParseS3URL(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseS3URL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseS3URL(%q) = %q, %q, want %q, %q", tt.raw, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Stdout, S3Options{})
	if err != nil {
		t.Fatalf("Open(-): %v", err)
	}
	if _, ok := s.(*StdoutStore); !ok {
		t.Errorf("Open(-) = %T, want *StdoutStore", s)
	}

	dir := t.TempDir()
	s, err = Open(ctx, dir, S3Options{})
	if err != nil {
		t.Fatalf("Open(dir): %v", err)
	}
	if ds, ok := s.(*DirStore); !ok || ds.Dir() != dir {
		t.Errorf("Open(dir) = %#v", s)
	}

	s, err = Open(ctx, "s3://scores/op24", fakeS3Options(&fakeS3{}))
	if err != nil {
		t.Fatalf("Open(s3): %v", err)
	}
	if ss, ok := s.(*S3Store); !ok || ss.Key("row.svg") != "op24/row.svg" {
		t.Errorf("Open(s3) = %#v", s)
	}

	if _, err := Open(ctx, "s3://", S3Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(s3://) error = %v", err)
	}
}

// fakeS3 serves PutObject for a path-style endpoint and records bodies.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	status  int // non-zero forces responses to this status
	fail    int // when set, only the first fail calls get status
	calls   int
}

type fakeObject struct {
	body        []byte
	contentType string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.status != 0 && (f.fail == 0 || f.calls <= f.fail) {
		return &http.Response{StatusCode: f.status, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}, Request: req}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}, Request: req}, nil
	}
	body, _ := io.ReadAll(req.Body)
	if dec, ok := decodeChunked(body); ok {
		body = dec
	}
	if f.objects == nil {
		f.objects = make(map[string]fakeObject)
	}
	f.objects[strings.TrimPrefix(req.URL.Path, "/")] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{"Etag": {`"etag"`}}, Request: req}, nil
}

// decodeChunked unwraps a single-chunk aws-chunked body.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func fakeS3Options(rt http.RoundTripper) S3Options {
	return S3Options{
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		ClientOptions: []func(*s3.Options){func(o *s3.Options) {
			o.HTTPClient = &http.Client{Transport: rt}
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}},
	}
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	opts := fakeS3Options(fake)
	opts.Bucket = "scores"
	opts.Prefix = "/op24/"

	store, err := NewS3Store(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	loc, err := store.Put(context.Background(), "row.svg", []byte("<svg/>"), "image/svg+xml")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if loc != "s3://scores/op24/row.svg" {
		t.Errorf("location = %q", loc)
	}

	obj, ok := fake.objects["scores/op24/row.svg"]
	if !ok {
		t.Fatalf("object not stored; have %v", keys(fake.objects))
	}
	if string(obj.body) != "<svg/>" {
		t.Errorf("body = %q", obj.body)
	}
	if obj.contentType != "image/svg+xml" {
		t.Errorf("content type = %q", obj.contentType)
	}
}

func TestS3StoreClientErrorNotRetried(t *testing.T) {
	fake := &fakeS3{status: http.StatusForbidden}
	opts := fakeS3Options(fake)
	opts.Bucket = "scores"

	store, err := NewS3Store(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	_, err = store.Put(context.Background(), "row.svg", []byte("x"), "")
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeStorage)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
}

func TestS3StoreRetriesServerErrors(t *testing.T) {
	fake := &fakeS3{status: http.StatusServiceUnavailable, fail: 2}
	opts := fakeS3Options(fake)
	opts.Bucket = "scores"
	opts.Retry = cache.Backoff{Attempts: 3, Delay: time.Millisecond}

	store, err := NewS3Store(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if _, err := store.Put(context.Background(), "row.ly", []byte("{}"), "text/x-lilypond"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3", fake.calls)
	}
	if _, ok := fake.objects["scores/row.ly"]; !ok {
		t.Errorf("object not stored after retries; have %v", keys(fake.objects))
	}
}

func TestS3StoreSingleAttemptSendsOnce(t *testing.T) {
	fake := &fakeS3{status: http.StatusServiceUnavailable}
	opts := fakeS3Options(fake)
	opts.Bucket = "scores"
	opts.Retry = cache.Backoff{Attempts: 1}

	store, err := NewS3Store(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if _, err := store.Put(context.Background(), "row.svg", []byte("x"), ""); err == nil {
		t.Fatal("Put should fail")
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Options{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}
}

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestClassify(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{statusErr(500), true},
		{statusErr(503), true},
		{statusErr(429), true},
		{statusErr(403), false},
		{statusErr(404), false},
		{fmt.Errorf("wrapped: %w", statusErr(502)), true},
		{io.EOF, false},
	}
	for _, tt := range tests {
		if got := cache.IsRetryable(classify(tt.err)); got != tt.retryable {
			t.Errorf("classify(%v) retryable = %v, want %v", tt.err, got, tt.retryable)
		}
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func keys(m map[string]fakeObject) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
