// Package session keeps backend session cookies between CLI invocations,
// the way a browser keeps them between page loads.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type file struct {
	BaseURL string         `json:"baseUrl"`
	Cookies []storedCookie `json:"cookies"`
}

// Save writes cookies for baseURL to path with owner-only permissions.
func Save(path, baseURL string, cookies []*http.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	f := file{BaseURL: baseURL}
	for _, c := range cookies {
		f.Cookies = append(f.Cookies, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Load returns the stored cookies. A missing file or a file written for a
// different backend yields no cookies and no error.
func Load(path, baseURL string) ([]*http.Cookie, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if f.BaseURL != baseURL {
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(f.Cookies))
	for _, c := range f.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return cookies, nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
