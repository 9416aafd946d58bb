package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/google/uuid"
)

const (
	MaxItems       = 20
	MinQuantity    = 1
	MaxQuantity    = 10
	MaxFieldLength = 500
	maxImageLength = 2048
)

// Catalog resolves bundle ids to their authoritative definition.
type Catalog interface {
	Lookup(id string) (models.Bundle, bool)
}

// Validator turns an untrusted checkout body into validated cart lines.
// It has no side effects; the result depends only on the input and the catalog.
type Validator struct {
	catalog Catalog
	site    *url.URL
}

// NewValidator creates a validator bound to a catalog and to the storefront's
// own origin, which is the only origin product images may come from.
func NewValidator(catalog Catalog, siteURL string) (*Validator, error) {
	site, err := url.Parse(siteURL)
	if err != nil || !site.IsAbs() || site.Host == "" {
		return nil, fmt.Errorf("site url %q must be absolute", siteURL)
	}
	return &Validator{catalog: catalog, site: site}, nil
}

// Validate parses a raw `{"items": [...], "requestId": "..."}` body and checks
// every line, failing on the first invalid one.
func (v *Validator) Validate(body []byte) (*models.Cart, error) {
	var envelope struct {
		Items     json.RawMessage `json:"items"`
		RequestID json.RawMessage `json:"requestId"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, requestError("body must be a JSON object")
	}

	if isNull(envelope.Items) {
		return nil, requestError("items is required")
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(envelope.Items, &rawItems); err != nil {
		return nil, requestError("items must be an array")
	}
	if len(rawItems) == 0 {
		return nil, requestError("items must not be empty")
	}
	if len(rawItems) > MaxItems {
		return nil, requestError("too many items: %d (max %d)", len(rawItems), MaxItems)
	}

	requestID, err := parseRequestID(envelope.RequestID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(rawItems))
	for i, raw := range rawItems {
		line, err := v.validateItem(i, raw)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return &models.Cart{Lines: lines, RequestID: requestID}, nil
}

func (v *Validator) validateItem(index int, raw json.RawMessage) (models.CartLine, error) {
	var line models.CartLine

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return line, itemError(index, "must be an object")
	}

	required := []struct {
		key string
		dst *string
	}{
		{"name", &line.Name},
		{"description", &line.Description},
		{"designId", &line.DesignID},
		{"designName", &line.DesignName},
		{"bundleId", &line.BundleID},
		{"bundleName", &line.BundleName},
		{"bundleSku", &line.BundleSKU},
	}
	for _, f := range required {
		s, err := requiredString(fields, f.key)
		if err != nil {
			return line, itemError(index, "%v", err)
		}
		*f.dst = s
	}

	price, err := integerField(fields, "price")
	if err != nil {
		return line, itemError(index, "%v", err)
	}
	if price <= 0 {
		return line, itemError(index, "price must be a positive integer amount in cents")
	}

	quantity, err := integerField(fields, "quantity")
	if err != nil {
		return line, itemError(index, "%v", err)
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return line, itemError(index, "quantity must be between %d and %d", MinQuantity, MaxQuantity)
	}

	bundle, ok := v.catalog.Lookup(line.BundleID)
	if !ok {
		return line, itemError(index, "unknown bundleId %q", line.BundleID)
	}
	if price != bundle.Price {
		return line, itemError(index, "price does not match catalog price for bundle %q", bundle.ID)
	}

	line.Price = price
	line.Quantity = quantity
	line.Image = v.sanitizeImage(fields["image"])

	return line, nil
}

// sanitizeImage returns an absolute URL on the site's own origin, or "" when
// the submitted value is missing or points anywhere else.
func (v *Validator) sanitizeImage(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxImageLength || strings.ContainsAny(s, "\\\r\n\t") {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.User != nil {
		return ""
	}

	if !u.IsAbs() {
		if u.Host != "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
			return ""
		}
		return v.site.ResolveReference(u).String()
	}

	if u.Scheme != "https" && u.Scheme != v.site.Scheme {
		return ""
	}
	if !strings.EqualFold(u.Host, v.site.Host) {
		return ""
	}
	return u.String()
}

func requiredString(fields map[string]any, key string) (string, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s must not be empty", key)
	}
	if utf8.RuneCountInString(s) > MaxFieldLength {
		return "", fmt.Errorf("%s must be at most %d characters", key, MaxFieldLength)
	}
	return s, nil
}

func integerField(fields map[string]any, key string) (int64, error) {
	value, ok := fields[key]
	if !ok || value == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return i, nil
}

func parseRequestID(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", requestError("requestId must be a string")
	}
	if s == "" {
		return "", nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", requestError("requestId must be a UUID")
	}
	return id.String(), nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
