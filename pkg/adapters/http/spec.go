package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// openapiYAML is the source of api.gen.go, served as-is on /openapi.yaml.
//
//go:embed openapi.yaml
var openapiYAML []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// loadSwagger loads the generated spec and validates it once.
func loadSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		doc, err := GetSwagger()
		if err != nil {
			swaggerErr = fmt.Errorf("failed to load OpenAPI document: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			swaggerErr = fmt.Errorf("invalid OpenAPI document: %w", err)
			return
		}
		swaggerDoc = doc
	})
	return swaggerDoc, swaggerErr
}

// decodeBody validates data against the named component schema, then decodes it into dst.
func decodeBody(schemaName string, data []byte, dst any) error {
	doc, err := loadSwagger()
	if err != nil {
		return err
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found", schemaName)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return &requestError{msg: "invalid JSON body", err: err}
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return &requestError{msg: "request does not match " + schemaName, err: err}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &requestError{msg: "invalid request body", err: err}
	}
	return nil
}

// requestError marks a client-side failure, reported as 400.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *requestError) Unwrap() error {
	return e.err
}
