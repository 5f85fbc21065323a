package evidence

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
	"google.golang.org/api/option"
)

// DefaultMaxSize is the largest evidence file Load accepts by default
const DefaultMaxSize int64 = 10 << 20

const gcsScheme = "gs://"

var (
	// ErrTooLarge is returned when an evidence file exceeds the size limit
	ErrTooLarge = goerr.New("evidence file too large")
	// ErrNotFound is returned when the evidence file does not exist
	ErrNotFound = goerr.New("evidence file not found")
)

// File is an evidence payload ready to be uploaded
type File struct {
	Name    string
	Content []byte
}

// Loader reads evidence files from the local filesystem or from Cloud Storage (gs://bucket/object)
type Loader struct {
	maxSize       int64
	clientOptions []option.ClientOption

	mu     sync.Mutex
	client *storage.Client
	owned  bool
}

// Option is a functional option for Loader configuration
type Option func(*Loader)

// WithMaxSize sets the size limit of a single evidence file
func WithMaxSize(size int64) Option {
	return func(l *Loader) {
		l.maxSize = size
	}
}

// WithCredentialsFile makes the Cloud Storage client use a service account key file
func WithCredentialsFile(path string) Option {
	return func(l *Loader) {
		l.clientOptions = append(l.clientOptions, option.WithCredentialsFile(path))
	}
}

// WithStorageClient uses an existing Cloud Storage client. The Loader does not close it.
func WithStorageClient(client *storage.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// New creates a Loader. The Cloud Storage client is created on the first gs:// load.
func New(opts ...Option) *Loader {
	l := &Loader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the evidence file at src
func (l *Loader) Load(ctx context.Context, src string) (*File, error) {
	if bucket, object, ok := ParseGCSURL(src); ok {
		return l.loadGCS(ctx, bucket, object)
	}
	return l.loadLocal(ctx, src)
}

// Close releases the Cloud Storage client if the Loader created it
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client == nil || !l.owned {
		return nil
	}
	err := l.client.Close()
	l.client = nil
	return err
}

// ParseGCSURL splits gs://bucket/object into bucket and object
func ParseGCSURL(src string) (bucket, object string, ok bool) {
	rest, found := strings.CutPrefix(src, gcsScheme)
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}

func (l *Loader) loadLocal(ctx context.Context, src string) (*File, error) {
	f, err := os.Open(filepath.Clean(src))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "no such file", goerr.V("path", src))
		}
		return nil, goerr.Wrap(err, "failed to open evidence file", goerr.V("path", src))
	}
	defer safe.Close(ctx, f)

	content, err := l.readLimited(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read evidence file", goerr.V("path", src))
	}
	return &File{Name: filepath.Base(src), Content: content}, nil
}

func (l *Loader) loadGCS(ctx context.Context, bucket, object string) (*File, error) {
	client, err := l.storageClient(ctx)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "no such object", goerr.V("bucket", bucket), goerr.V("object", object))
		}
		return nil, goerr.Wrap(err, "failed to open evidence object", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	defer safe.Close(ctx, r)

	if r.Attrs.Size > l.maxSize {
		return nil, goerr.Wrap(ErrTooLarge, "object exceeds size limit", goerr.V("size", r.Attrs.Size), goerr.V("limit", l.maxSize))
	}

	content, err := l.readLimited(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read evidence object", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	return &File{Name: path.Base(object), Content: content}, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > l.maxSize {
		return nil, goerr.Wrap(ErrTooLarge, "file exceeds size limit", goerr.V("limit", l.maxSize))
	}
	return content, nil
}

func (l *Loader) storageClient(ctx context.Context) (*storage.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	client, err := storage.NewClient(ctx, l.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	l.client = client
	l.owned = true
	return client, nil
}
