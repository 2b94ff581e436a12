/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status defines metadata for errors returned by the asset gateway
// client. Status codes are divided by group, where each group represents a
// layer of the call path (transport, gateway peer, chaincode, commit
// validation, local client), and the codes correspond to those returned by
// that layer.
package status

import (
	"fmt"

	"github.com/pkg/errors"

	grpcstatus "google.golang.org/grpc/status"
)

// Status provides additional information about an unsuccessful operation
// performed by the gateway client. Essentially, this object contains
// metadata about an error returned by the client.
type Status struct {
	// Group status group
	Group Group
	// Code status code
	Code int32
	// Message status message
	Message string
	// Details any additional status details
	Details []interface{}
}

// Group of status to help users infer status codes from various components
type Group int32

const (
	// UnknownStatus unknown status group
	UnknownStatus Group = iota

	// GRPCTransportStatus is the status associated with requests made over
	// the gRPC connection to the gateway peer
	GRPCTransportStatus

	// GatewayServerStatus status returned by the gateway service itself,
	// for example when endorsement could not be collected
	GatewayServerStatus

	// ChaincodeStatus defines the status codes returned by chaincode
	// execution on the remote peer
	ChaincodeStatus

	// CommitValidationStatus is the status derived from the validation code
	// of a committed transaction
	CommitValidationStatus

	// ClientStatus defines the status inferred locally by the client, such
	// as credential loading and input validation failures
	ClientStatus
)

// GroupName maps the groups in this package to human-readable strings
var GroupName = map[int32]string{
	0: "Unknown",
	1: "gRPC Transport Status",
	2: "Gateway Server Status",
	3: "Chaincode Status",
	4: "Commit Validation Status",
	5: "Client Status",
}

func (g Group) String() string {
	if s, ok := GroupName[int32(g)]; ok {
		return s
	}
	return UnknownStatus.String()
}

// FromError returns a Status representing err if available,
// otherwise it returns nil, false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return &Status{Code: OK.ToInt32()}, true
	}
	if s, ok := err.(*Status); ok {
		return s, true
	}
	unwrappedErr := errors.Cause(err)
	if s, ok := unwrappedErr.(*Status); ok {
		return s, true
	}

	return nil, false
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s Code: (%d) %s. Description: %s", s.Group.String(), s.Code, s.codeString(), s.Message)
}

func (s *Status) codeString() string {
	switch s.Group {
	case GRPCTransportStatus:
		return ToGRPCStatusCode(s.Code).String()
	case CommitValidationStatus:
		return ToTransactionValidationCode(s.Code).String()
	case GatewayServerStatus, ClientStatus:
		return ToClientStatusCode(s.Code).String()
	default:
		return Unknown.String()
	}
}

// New returns a Status with the given parameters
func New(group Group, code int32, msg string, details []interface{}) *Status {
	return &Status{Group: group, Code: code, Message: msg, Details: details}
}

// NewFromGRPCStatus new Status from gRPC status response
func NewFromGRPCStatus(s *grpcstatus.Status) *Status {
	if s == nil {
		return nil
	}
	details := make([]interface{}, len(s.Proto().Details))
	for i, detail := range s.Proto().Details {
		details[i] = detail
	}

	return &Status{Group: GRPCTransportStatus, Code: s.Proto().Code,
		Message: s.Message(), Details: details}
}
