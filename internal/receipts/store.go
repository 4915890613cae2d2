// Package receipts stores expense receipt images in an external object store
// and issues time-limited signed URLs for reading them back.
package receipts

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyExists is returned when an upload targets a path that already
// holds an object. Receipt objects are write-once; replacing a receipt means
// uploading to a new path.
var ErrAlreadyExists = errors.New("receipts: object already exists")

// Store uploads receipt objects over HTTP and signs read URLs with a shared
// secret. The zero value is not usable; use NewStore.
type Store struct {
	baseURL string
	secret  []byte
	httpc   *http.Client
	now     func() time.Time
}

// NewStore builds a Store for the given object-store endpoint. The secret is
// used both as the bearer token for uploads and as the URL signing key.
func NewStore(baseURL, secret string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// Upload stores a receipt and returns the generated object path. The path is
// namespaced by tenant and expense so listing a tenant's objects never leaks
// across accounts, and carries a fresh UUID so re-uploads never collide.
func (s *Store) Upload(ctx context.Context, tenantID, expenseID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	objectPath := fmt.Sprintf("receipts/%s/%s/%s%s",
		tenantID, expenseID, uuid.New(), safeExt(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/objects/"+objectPath, body)
	if err != nil {
		return "", fmt.Errorf("receipts: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+string(s.secret))
	req.Header.Set("Content-Type", contentType)
	// Write-once: the store must reject the upload if the object exists.
	req.Header.Set("If-None-Match", "*")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("receipts: upload: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return objectPath, nil
	case http.StatusPreconditionFailed:
		return "", ErrAlreadyExists
	default:
		return "", fmt.Errorf("receipts: upload: unexpected status %d", resp.StatusCode)
	}
}

// SignedURL returns a read URL for the object that expires after ttl.
// The signature covers the path and the expiry so neither can be tampered
// with; the store verifies it with the same shared secret.
func (s *Store) SignedURL(objectPath string, ttl time.Duration) string {
	expires := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)

	mac := hmac.New(sha256.New, s.secret)
	io.WriteString(mac, objectPath)
	io.WriteString(mac, "\n")
	io.WriteString(mac, expires)
	sig := hex.EncodeToString(mac.Sum(nil))

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("sig", sig)
	return s.baseURL + "/objects/" + objectPath + "?" + q.Encode()
}

// safeExt keeps a short, lowercase extension from the original filename and
// discards anything else. The stored name is otherwise fully generated.
func safeExt(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 {
		return ""
	}
	for _, r := range ext[min(len(ext), 1):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
