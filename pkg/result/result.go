// Package result defines the JSON envelope returned by every API endpoint.
package result

// Result is either {success: true, data} or {success: false, error}.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Result {
	return Result{Success: true, Data: data}
}

func Fail(message string) Result {
	return Result{Success: false, Error: message}
}
