package serverutils

type SuccessResponseBody[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) *SuccessResponseBody[T] {
	return StatusResponse(200, message, data)
}

// StatusResponse is SuccessResponse for handlers that answer with a status other than 200.
// code should match the status written on the response.
func StatusResponse[T any](code int, message string, data T) *SuccessResponseBody[T] {
	return &SuccessResponseBody[T]{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}
