package downloader

import (
	"encoding/json"
	"os"
)

type jsonResult struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Query    string `json:"query,omitempty"`
	ID       string `json:"id,omitempty"`
	Output   string `json:"output,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error,omitempty"`
}

func emitJSONResult(res jsonResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(res)
}

// WriteJSONError emits a terminal error object for -json runs.
func WriteJSONError(query string, err error) {
	emitJSONResult(jsonResult{
		Type:     "error",
		Status:   "error",
		Query:    query,
		Category: string(CategoryOf(err)),
		Error:    err.Error(),
	})
}
