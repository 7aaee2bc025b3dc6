package api

import (
	_ "embed"
	"net/http"
)

// OpenAPI contains the embedded OpenAPI description of the board API.
//
//go:embed openapi.yaml
var OpenAPI []byte

// HandleOpenAPI serves GET /openapi.yaml.
func HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}
