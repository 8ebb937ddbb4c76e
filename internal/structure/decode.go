package structure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects the descriptor encoding.
type Format int

const (
	// Detect picks JSON when the payload starts with '{' and YAML otherwise.
	Detect Format = iota
	JSON
	YAML
)

// FetchTimeout bounds a remote descriptor request when the caller's
// context has no deadline.
const FetchTimeout = 30 * time.Second

// maxDescriptorSize caps how much of a remote response is read.
const maxDescriptorSize = 64 << 20

// Decode parses a descriptor. Unknown keys are ignored so that descriptors
// produced by other tools load unchanged.
func Decode(data []byte, format Format) (*Descriptor, error) {
	if format == Detect {
		format = sniff(data)
	}

	var d Descriptor
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("structure: decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("structure: decode json: %w", err)
		}
	}
	return &d, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON
	}
	return YAML
}

func formatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return Detect
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch reads a descriptor from a file path or an http(s) URL.
func Fetch(ctx context.Context, source string) (*Descriptor, error) {
	var (
		data []byte
		err  error
	)
	if IsRemote(source) {
		data, err = fetchRemote(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("structure: load %s: %w", source, err)
	}
	return Decode(data, formatFor(strings.SplitN(source, "?", 2)[0]))
}

func fetchRemote(ctx context.Context, url string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
}
