/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rest

import (
	"encoding/json"
	"net/http"

	grpccodes "google.golang.org/grpc/codes"

	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

// httpStatusOf distinguishes caller mistakes from upstream failures.
// Client-side statuses are the caller's fault (400); a transport deadline
// expiry is a gateway timeout (504); everything else that went wrong
// happened upstream of this process (502).
func httpStatusOf(err error) int {
	s, ok := status.FromError(err)
	if !ok {
		return http.StatusBadGateway
	}

	switch s.Group {
	case status.ClientStatus:
		return http.StatusBadRequest
	case status.GRPCTransportStatus:
		if grpccodes.Code(s.Code) == grpccodes.DeadlineExceeded {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	logger.Errorf("Request failed: %s", err)
	writeJSON(w, httpStatusOf(err), map[string]string{"error": err.Error()})
}

func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %s", err)
	}
}

func writeText(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(msg)); err != nil {
		logger.Errorf("Failed to write response: %s", err)
	}
}
