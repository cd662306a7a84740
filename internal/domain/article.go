package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ArticleSummary is the minimal record the catalog returns for one document.
type ArticleSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
}

// UnmarshalJSON accepts the id as either a JSON string or a JSON number.
func (a *ArticleSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Title    string          `json:"title"`
		FilePath string          `json:"file_path"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	*a = ArticleSummary{ID: id, Title: raw.Title, FilePath: raw.FilePath}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("article id: %w", err)
	}
	return n.String(), nil
}

// FormFile is one file picked into a form's file input.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// UploadRequest is the form data captured from a single upload submission.
type UploadRequest struct {
	Fields map[string][]string
	Files  []FormFile
}

// SearchQuery is a trimmed, non-empty search string.
type SearchQuery string

// NewSearchQuery trims raw input and rejects blank queries with ErrEmptyQuery.
func NewSearchQuery(raw string) (SearchQuery, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return SearchQuery(q), nil
}

func (q SearchQuery) String() string {
	return string(q)
}
