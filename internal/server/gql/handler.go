package gql

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/inkpost/internal/logging"
	graphql "github.com/graph-gophers/graphql-go"
)

const maxRequestBody = 1 << 20

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over HTTP. Operations arrive as a JSON body on POST;
// GET carries query parameters and is limited to queries.
type Handler struct {
	schema *graphql.Schema
	log    logging.Logger
}

func NewHandler(schema *graphql.Schema, log logging.Logger) *Handler {
	return &Handler{schema: schema, log: log.With("module", "graphql")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request

	switch r.Method {
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				http.Error(w, "malformed variables", http.StatusBadRequest)
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	if r.Method == http.MethodGet && operationKind(req.Query, req.OperationName) == "mutation" {
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "mutations require POST", http.StatusMethodNotAllowed)
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error(r.Context(), "write response", "error", err)
	}
}
