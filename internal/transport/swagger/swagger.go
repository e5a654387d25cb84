package swagger

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/support-desk/api"
	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Document is the parsed API description together with the raw bytes served
// to Swagger UI.
type Document struct {
	Raw []byte
	Doc *openapi3.T
}

// Load reads the document from path, or the embedded copy when path is
// empty or unreadable, and validates it.
func Load(ctx context.Context, path string) (*Document, error) {
	raw := api.Spec
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			raw = b
		}
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return &Document{Raw: raw, Doc: doc}, nil
}

// ServeSpec writes the raw YAML.
func (d *Document) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Raw)
}

// Documents reports whether the document declares method on an /api/v1
// relative path. Templated segments match concrete chi patterns.
func (d *Document) Documents(method, path string) bool {
	item := d.Doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
