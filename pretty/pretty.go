// Package pretty formats JSON, XML and HTML payloads for export files, API responses
// and rendered pages.
package pretty

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"github.com/yosssi/gohtml"
)

// JSON marshals v with a two space indent.
func JSON(v any) ([]byte, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling JSON: %w", err)
	}
	return output, nil
}

// XML writes doc indented by one space per level.
func XML(doc *etree.Document) ([]byte, error) {
	doc.Indent(1)
	var output bytes.Buffer
	if _, err := doc.WriteTo(&output); err != nil {
		return nil, fmt.Errorf("writing indented XML : %w", err)
	}
	return output.Bytes(), nil
}

// HTML formats an HTML document. The input is returned unchanged when gohtml produces nothing.
func HTML(body []byte) []byte {
	output := gohtml.FormatBytes(bytes.TrimSpace(body))
	if len(output) == 0 {
		return body
	}
	return output
}

// IsJSON reports whether the payload sniffs as JSON.
func IsJSON(body []byte) bool {
	if len(bytes.TrimSpace(body)) == 0 {
		return false
	}
	return mimetype.Detect(body).Is("application/json")
}
