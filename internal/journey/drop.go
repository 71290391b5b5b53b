package journey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"journeymap/internal/geometry"
)

var (
	// ErrEmptyPayload is returned for a drop that carried no text.
	ErrEmptyPayload = errors.New("journey: empty drop payload")
	// ErrMalformedPayload is returned for a drop whose text is not a
	// content record.
	ErrMalformedPayload = errors.New("journey: malformed drop payload")
)

// DropOffset moves a dropped node so the pointer lands on its center.
var DropOffset = geometry.Point{X: -75, Y: -40}

var validate = validator.New()

// ParsePayload decodes a drag-and-drop payload into a content record.
func ParsePayload(payload string) (Content, error) {
	if strings.TrimSpace(payload) == "" {
		return Content{}, ErrEmptyPayload
	}
	var c Content
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Content{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := c.Validate(); err != nil {
		return Content{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return c, nil
}

// Validate checks the fields a content record must carry.
func (c Content) Validate() error {
	return validate.Struct(c)
}

// EncodePayload is the inverse of ParsePayload, used when the canvas itself
// starts a drag from the catalog.
func EncodePayload(c Content) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DropPosition is where a node dropped at pointer is placed.
func DropPosition(pointer geometry.Point) geometry.Point {
	return pointer.Add(DropOffset)
}
