// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"encoding/json"
	"net/http"
)

// Response is either [Computed] or [Rejected].
type Response interface {
	response()
}

// Computed is returned for an n inside the supported domain.
type Computed struct {
	N      int   `json:"n,omitempty"`
	Result int64 `json:"result,omitempty"`
}

func (Computed) response() {}

// Rejected carries a human readable reason the request was not computed.
type Rejected struct {
	Message string `json:"message,omitempty"`
}

func (Rejected) response() {}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// The status line is already sent so a failed write can only be dropped.
	_ = json.NewEncoder(w).Encode(resp)
}
