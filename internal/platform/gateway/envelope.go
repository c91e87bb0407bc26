package gateway

// Envelope is the backend's wrapper convention for every response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Unwrap returns the payload unchanged on success. On a logical failure
// (success:false with a 200 status) it surfaces the envelope message when the
// backend supplied one, falling back to the caller's generic description.
func (e Envelope[T]) Unwrap(endpoint, fallback string) (T, error) {
	if e.Success {
		return e.Data, nil
	}
	var zero T
	message := e.Message
	if message == "" {
		message = fallback
	}
	return zero, &APIError{Message: message, Endpoint: endpoint}
}
