package zerossl

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Status is the lifecycle state of a certificate order.
type Status string

// Statuses reported by the CA.
const (
	StatusDraft             Status = "draft"
	StatusPendingValidation Status = "pending_validation"
	StatusIssued            Status = "issued"
	StatusCancelled         Status = "cancelled"
	StatusRevoked           Status = "revoked"
	StatusExpired           Status = "expired"
	StatusExpiringSoon      Status = "expiring_soon"
)

// Terminal reports whether the order can no longer reach StatusIssued.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusRevoked, StatusExpired:
		return true
	}
	return false
}

// Certificate is a certificate order as returned by the CA.
type Certificate struct {
	ID                string     `json:"id"`
	Type              string     `json:"type,omitempty"`
	CommonName        string     `json:"common_name"`
	AdditionalDomains string     `json:"additional_domains,omitempty"`
	Created           string     `json:"created,omitempty"`
	Expires           string     `json:"expires,omitempty"`
	Status            Status     `json:"status"`
	Validation        Validation `json:"validation"`
}

// Validation holds the per-domain validation descriptors of an order.
type Validation struct {
	OtherMethods map[string]FileValidation `json:"other_methods"`
}

// UnmarshalJSON accepts an empty JSON array for other_methods, which the
// API returns for orders without pending validation.
func (v *Validation) UnmarshalJSON(data []byte) error {
	var raw struct {
		OtherMethods json.RawMessage `json:"other_methods"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw.OtherMethods)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	return json.Unmarshal(trimmed, &v.OtherMethods)
}

// FileValidation describes the HTTP file the CA fetches to validate a domain.
type FileValidation struct {
	URLHTTP  string   `json:"file_validation_url_http"`
	URLHTTPS string   `json:"file_validation_url_https"`
	Content  []string `json:"file_validation_content"`
}

// Body returns the file content as served to the CA: lines joined by "\n".
func (f FileValidation) Body() string {
	return strings.Join(f.Content, "\n")
}

// FileValidation returns the descriptor for domain, if present.
func (c *Certificate) FileValidation(domain string) (FileValidation, bool) {
	if c == nil || c.Validation.OtherMethods == nil {
		return FileValidation{}, false
	}
	fv, ok := c.Validation.OtherMethods[domain]
	return fv, ok
}

// Download is the issued certificate material.
type Download struct {
	Certificate string `json:"certificate.crt"`
	CABundle    string `json:"ca_bundle.crt"`
}

// envelope detects the {"success": false, "error": {...}} error shape.
type envelope struct {
	Success *bool `json:"success"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}
