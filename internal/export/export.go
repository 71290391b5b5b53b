// Package export writes a journey map as a downloadable JSON document or as
// a PNG image.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"journeymap/internal/journey"
)

// JSON returns the map in its persisted shape, indented for reading.
func JSON(m *journey.Map) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// FileName is the name offered for a JSON download.
func FileName(brand, campaign string) string {
	if journey.IsAllCampaigns(campaign) {
		campaign = journey.AllCampaigns
	}
	return fmt.Sprintf("%s-%s-journey.json", sanitize(brand), sanitize(campaign))
}

// PNGFileName mirrors FileName for image exports.
func PNGFileName(brand, campaign string) string {
	return strings.TrimSuffix(FileName(brand, campaign), ".json") + ".png"
}

// WriteJSON writes the export into dir and returns the file path.
func WriteJSON(dir, brand, campaign string, m *journey.Map) (string, error) {
	data, err := JSON(m)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, FileName(brand, campaign))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

// ReadJSON imports a previously exported file.
func ReadJSON(path string) (*journey.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	m, err := journey.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("export: decode %s: %w", path, err)
	}
	return m, nil
}

// sanitize keeps names usable as a single path element.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
