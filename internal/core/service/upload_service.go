package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

// sniffLen is how much of an upload is inspected to detect its content type.
const sniffLen = 3072

// UploadPolicy bounds what the upload handler accepts.
type UploadPolicy struct {
	MaxBytes    int64
	AllowedExts []string // lower-case, with leading dot; empty allows any extension
}

// UploadService names, validates and stores screenshot attachments.
type UploadService struct {
	files   ports.FileStore
	policy  UploadPolicy
	allowed map[string]struct{}
	stamp   *stamper
	log     zerolog.Logger
}

func NewUploadService(store ports.FileStore, policy UploadPolicy, log zerolog.Logger) *UploadService {
	allowed := make(map[string]struct{}, len(policy.AllowedExts))
	for _, ext := range policy.AllowedExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &UploadService{
		files:   store,
		policy:  policy,
		allowed: allowed,
		stamp:   newStamper(time.Now),
		log:     log,
	}
}

// Store validates the attachment and persists it under a unique name,
// returning the reference to record on the contribution.
func (s *UploadService) Store(ctx context.Context, in ports.UploadInput) (string, error) {
	if s.policy.MaxBytes > 0 && in.Size > s.policy.MaxBytes {
		return "", domain.ErrUploadTooLarge
	}

	clean := SanitizeFilename(in.Filename)
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[strings.ToLower(path.Ext(clean))]; !ok {
			return "", fmt.Errorf("%w: extension %q", domain.ErrUnsupportedUpload, path.Ext(clean))
		}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if mt := mimetype.Detect(head); !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: content %s", domain.ErrUnsupportedUpload, mt.String())
	}

	body := io.MultiReader(bytes.NewReader(head), in.Content)
	if s.policy.MaxBytes > 0 {
		body = &capReader{r: body, remaining: s.policy.MaxBytes}
	}

	name := fmt.Sprintf("%d-%s", s.stamp.Next(), clean)
	ref, err := s.files.Save(ctx, name, body)
	if err != nil {
		return "", err
	}

	s.log.Debug().Str("ref", ref).Int64("size", in.Size).Msg("upload stored")
	return ref, nil
}

// Discard removes a previously stored attachment. Empty references are ignored.
func (s *UploadService) Discard(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return s.files.Remove(ctx, ref)
}

// SanitizeFilename keeps only the base name, turns whitespace into "_" and
// drops anything outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'):
			b.WriteRune(r)
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		return "upload"
	}
	return clean
}

// stamper hands out strictly increasing unix-millisecond values, so two
// uploads in the same millisecond never share a prefix.
type stamper struct {
	last atomic.Int64
	now  func() time.Time
}

func newStamper(now func() time.Time) *stamper {
	return &stamper{now: now}
}

func (s *stamper) Next() int64 {
	for {
		last := s.last.Load()
		next := s.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if s.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// capReader fails with domain.ErrUploadTooLarge once more than remaining bytes are read.
type capReader struct {
	r         io.Reader
	remaining int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, domain.ErrUploadTooLarge
	}
	return n, err
}
