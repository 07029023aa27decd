package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validation failures returned by DecodeOrder
var (
	ErrMalformedPayload = errors.New("malformed order payload")
	ErrMissingFields    = errors.New("missing required fields in payload")
)

// RequiredOrderFields lists the fields every order must carry
var RequiredOrderFields = []string{"order_id", "customer", "order_revenue"}

var orderRules = func() map[string]interface{} {
	rules := make(map[string]interface{}, len(RequiredOrderFields))
	for _, field := range RequiredOrderFields {
		rules[field] = "required"
	}
	return rules
}()

var validate = validator.New()

// OrderPayload is an order as received from the caller. Fields other than the
// required ones are passed through untouched.
type OrderPayload map[string]interface{}

// OrderID returns the order identifier as text, for logging
func (p OrderPayload) OrderID() string {
	if v, ok := p["order_id"]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// MissingFieldsError reports which required fields were absent
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	if len(e.Fields) == 0 {
		return ErrMissingFields.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMissingFields.Error(), strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// DecodeOrder parses a raw request body into an OrderPayload and checks the
// required fields. Number literals are kept as written. Input that is not
// valid UTF-8 is rejected rather than forwarded with replacement characters.
func DecodeOrder(raw string) (OrderPayload, error) {
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrMalformedPayload)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedPayload)
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, &MissingFieldsError{Fields: append([]string(nil), RequiredOrderFields...)}
	}

	payload := OrderPayload(obj)
	if err := ValidateOrder(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ValidateOrder checks that every required field is present and not empty
func ValidateOrder(payload OrderPayload) error {
	errs := validate.ValidateMap(payload, orderRules)
	if len(errs) == 0 {
		return nil
	}

	missing := make([]string, 0, len(errs))
	for field := range errs {
		missing = append(missing, field)
	}
	sort.Strings(missing)
	return &MissingFieldsError{Fields: missing}
}

// Marshal encodes the payload for the upstream API without HTML escaping
func (p OrderPayload) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]interface{}(p)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
