package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/inkpost/internal/common"
)

type errorBody struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Data    []map[string]string `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err with the status of its kind. Causes of internal
// errors are never written.
func writeError(w http.ResponseWriter, err error) {
	pub := common.Public(err)
	status := pub.Kind.Status()

	data := make([]map[string]string, 0, len(pub.Details))
	for _, d := range pub.Details {
		data = append(data, map[string]string{"message": d})
	}

	writeJSON(w, status, errorBody{Message: pub.Message, Status: status, Data: data})
}
