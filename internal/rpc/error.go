package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a fault reported by the remote Confluence service, either as an
// HTTP-level failure or as a JSON-RPC error object.
type Error struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch {
	case e.Message != "" && e.Code != 0:
		return fmt.Sprintf("rpc: %d %s", e.Code, e.Message)
	case e.Message != "":
		return "rpc: " + e.Message
	default:
		return fmt.Sprintf("rpc: HTTP %d", e.StatusCode)
	}
}

func parseHTTPError(res *http.Response) error {
	data, _ := io.ReadAll(res.Body)
	errRes := &Error{StatusCode: res.StatusCode}
	if len(data) > 0 {
		_ = json.Unmarshal(data, errRes)
	}

	if errRes.Message == "" {
		errRes.Message = strings.TrimSpace(string(data))
	}

	return errRes
}
