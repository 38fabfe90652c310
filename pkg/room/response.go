package room

// PayloadIn is the format we expect from a connected client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a message sent to one or more clients
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

// ActionResult is the direct reply to a client command
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func newResult(key, ctx string) *Response {
	return &Response{
		Key:     key,
		Data:    &ActionResult{Success: true},
		Context: ctx,
	}
}

func newErrorResult(key, ctx string, err error) *Response {
	return &Response{
		Key:     key,
		Data:    &ActionResult{Success: false, Message: err.Error()},
		Context: ctx,
	}
}

func newErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}
