package core

import (
	"encoding/json"
	"fmt"
)

// EncodeDocument serialises the full document as stored remotely.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = DocumentSchemaVersion
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a stored document. Unversioned documents are accepted as
// version 1; newer versions are rejected rather than silently truncated.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.SchemaVersion > DocumentSchemaVersion {
		return Document{}, fmt.Errorf("document schema version %d is newer than supported version %d", doc.SchemaVersion, DocumentSchemaVersion)
	}
	return upgradeDocument(doc), nil
}
