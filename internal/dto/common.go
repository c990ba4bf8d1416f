package dto

// Response is the uniform success envelope: {success, message?, data?}.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func OK(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
