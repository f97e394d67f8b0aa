package app

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"bookmart/internal/util"
	"bookmart/pkg/domain"
)

type kindSpec struct {
	prefix     string
	maxBytes   int64
	extensions map[string]struct{}
}

var kinds = map[domain.FileKind]kindSpec{
	domain.KindImage: {
		prefix:     "images",
		maxBytes:   5 << 20,
		extensions: extensionSet("jpg", "jpeg", "png", "gif", "webp"),
	},
	domain.KindDocument: {
		prefix:     "documents",
		maxBytes:   100 << 20,
		extensions: extensionSet("pdf", "epub", "docx", "doc", "txt", "mobi", "azw3"),
	},
}

func extensionSet(exts ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		out["."+e] = struct{}{}
	}
	return out
}

// ParseFileKind maps a route segment to a file kind.
func ParseFileKind(raw string) (domain.FileKind, bool) {
	switch domain.FileKind(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.KindImage:
		return domain.KindImage, true
	case domain.KindDocument:
		return domain.KindDocument, true
	default:
		return "", false
	}
}

// AcceptUpload validates and persists an uploaded asset. All checks run
// before any bytes are written: non-empty payload, the kind's size cap, then
// the kind's extension allow-list. The stored key combines the hint (or the
// owner id), a nanosecond timestamp and a random suffix, so concurrent
// uploads never collide.
func (a *App) AcceptUpload(ctx context.Context, ownerID string, kind domain.FileKind, declaredName string, declaredSize int64, r io.Reader, hint string) (domain.StoredFile, error) {
	spec, ok := kinds[kind]
	if !ok {
		return domain.StoredFile{}, invalid("kind", "must be image or document")
	}
	if declaredSize <= 0 {
		return domain.StoredFile{}, invalid("file", "empty payload")
	}
	if declaredSize > spec.maxBytes {
		return domain.StoredFile{}, invalid("file", fmt.Sprintf("exceeds %d byte limit for %s uploads", spec.maxBytes, kind))
	}
	original := filepath.Base(strings.TrimSpace(declaredName))
	ext := strings.ToLower(filepath.Ext(original))
	if _, ok := spec.extensions[ext]; !ok {
		return domain.StoredFile{}, invalid("file", "unsupported file type")
	}

	stem := sanitizeStem(hint)
	if stem == "" {
		stem = sanitizeStem(ownerID)
	}
	key := fmt.Sprintf("%s/%s-%d-%s%s", spec.prefix, stem, time.Now().UnixNano(), util.NewSuffix(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := a.blobs.Put(ctx, key, r, declaredSize, contentType)
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("store upload: %w", err)
	}
	return domain.StoredFile{URL: url, FileName: original, Size: declaredSize}, nil
}

// DeleteUpload removes a previously stored asset by kind and stored file
// name. A missing asset reports false rather than erroring, so repeated
// deletes stay harmless.
func (a *App) DeleteUpload(ctx context.Context, kind domain.FileKind, fileName string) (bool, error) {
	spec, ok := kinds[kind]
	if !ok {
		return false, invalid("kind", "must be image or document")
	}
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return false, invalid("fileName", "required")
	}
	deleted, err := a.blobs.Delete(ctx, spec.prefix+"/"+name)
	if err != nil {
		return false, fmt.Errorf("delete upload: %w", err)
	}
	return deleted, nil
}

func sanitizeStem(s string) string {
	s = strings.TrimSpace(s)
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			out = append(out, c)
		}
	}
	return string(out)
}
