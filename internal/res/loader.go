// Package res loads the documents and fonts a layout needs: local files,
// data URLs and anything github.com/viant/afs can reach.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/viant/afs"

	"github.com/gompdf/gomlayout/internal/template"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeDocument is a YAML or JSON document
	ResourceTypeDocument
	// ResourceTypeFont is a font resource
	ResourceTypeFont
	// ResourceTypeImage is an image resource
	ResourceTypeImage
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader handles loading resources. It is safe for concurrent use.
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	// remote and scheme URLs
	fs afs.Service
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		fs:      afs.New(),
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[urlStr]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var (
		res *Resource
		err error
	)
	if strings.HasPrefix(urlStr, "data:") {
		res, err = parseDataURL(urlStr)
	} else {
		var resolved string
		if resolved, err = l.resolveURL(urlStr); err != nil {
			return nil, err
		}
		if hasScheme(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[urlStr] = res
	l.cacheLock.Unlock()
	return res, nil
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:application/json;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		var err error
		if data, err = base64.StdEncoding.DecodeString(dataPart); err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	r := &Resource{URL: u, Data: data, MimeType: mime}
	r.sniff()
	return r, nil
}

// hasScheme reports whether u is a URL rather than a local path. Windows
// drive letters are not schemes.
func hasScheme(u string) bool {
	i := strings.Index(u, "://")
	return i > 1
}

// resolveURL resolves a URL relative to the base URL
func (l *Loader) resolveURL(urlStr string) (string, error) {
	if hasScheme(urlStr) || filepath.IsAbs(urlStr) {
		return urlStr, nil
	}

	if !hasScheme(l.BaseURL) {
		if l.BaseURL == "" {
			return urlStr, nil
		}
		return filepath.Join(filepath.Dir(l.BaseURL), urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource through afs: http(s), file://, mem:// and
// whatever storage schemes are registered.
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	data, err := l.fs.DownloadWithURL(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("unable to download %s: %w", urlStr, err)
	}
	u, _ := url.Parse(urlStr)
	path := urlStr
	if u != nil {
		path = u.Path
	}
	res := &Resource{URL: urlStr, Data: data, MimeType: determineMimeType(path)}
	res.sniff()
	return res, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	res := &Resource{URL: path, Data: data, MimeType: determineMimeType(path)}
	res.sniff()
	return res, nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)
	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		res := &Resource{URL: path, Data: data, MimeType: determineMimeType(path)}
		res.sniff()
		return res, nil
	}
	return nil, fmt.Errorf("resource not found: %s", filename)
}

// sniff fills in the MIME type from the content when the name did not tell,
// then derives the resource type.
func (r *Resource) sniff() {
	if r.MimeType == "" || r.MimeType == "application/octet-stream" {
		if kind, err := filetype.Match(r.Data); err == nil && kind != filetype.Unknown {
			r.MimeType = kind.MIME.Value
		}
	}
	r.Type = determineResourceType(r.MimeType)
}

// determineMimeType determines the MIME type of a file
func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "application/yaml"
	case ".json":
		return "application/json"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType string) ResourceType {
	switch {
	case mimeType == "application/yaml", mimeType == "application/json",
		mimeType == "text/yaml", mimeType == "text/plain":
		return ResourceTypeDocument
	case strings.HasPrefix(mimeType, "font/"), mimeType == "application/font-sfnt":
		return ResourceTypeFont
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceTypeImage
	case mimeType == "":
		return ResourceTypeUnknown
	}
	return ResourceTypeOther
}

// validFont checks font data against its declared type.
func validFont(mimeType string, data []byte) bool {
	switch mimeType {
	case "font/woff":
		return filetype.Is(data, "woff")
	case "font/woff2":
		return filetype.Is(data, "woff2")
	case "font/ttf":
		return filetype.Is(data, "ttf")
	case "font/otf":
		return filetype.Is(data, "otf")
	}
	return true
}

// LoadFont loads a font resource
func (l *Loader) LoadFont(ctx context.Context, urlStr string) (*Resource, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if res.Type != ResourceTypeFont || !validFont(res.MimeType, res.Data) {
		return nil, fmt.Errorf("resource is not a font: %s", urlStr)
	}
	return res, nil
}

// LoadTemplate loads and decodes a template document.
func (l *Loader) LoadTemplate(ctx context.Context, urlStr string) (*template.Template, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	tpl, err := template.Unmarshal(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", urlStr, err)
	}
	return tpl, nil
}

// LoadRecord loads and decodes a record document.
func (l *Loader) LoadRecord(ctx context.Context, urlStr string) (template.Record, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	rec, err := template.DecodeRecord(res.GetReader())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", urlStr, err)
	}
	return rec, nil
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}
