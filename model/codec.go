package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// DecodeDocument parses the ingestion JSON payload. Structural checks
// are left to the pipeline, which skips broken pages individually.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := sonic.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}

// EncodeDocument renders a document as the ingestion JSON payload.
func EncodeDocument(d *Document) ([]byte, error) {
	data, err := sonic.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
