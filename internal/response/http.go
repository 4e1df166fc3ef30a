package response

// APIResponse wraps every JSON payload. Data is always serialized so a failed
// report keeps the shape of a successful one.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func OK[T any](data T, message string) APIResponse[T] {
	return APIResponse[T]{Success: true, Message: message, Data: data}
}

// Failed carries whatever data could be computed next to the failure message.
func Failed[T any](data T, message string) APIResponse[T] {
	return APIResponse[T]{Success: false, Message: message, Data: data}
}
