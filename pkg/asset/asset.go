/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package asset defines the ledger record managed by the basic asset
// transfer chaincode. Field names and JSON keys mirror the chaincode's own
// schema so records round-trip through the contract unchanged.
package asset

// Asset is one attendance record in world state. DocType is set by the
// chaincode for CouchDB rich queries and is omitted when empty.
type Asset struct {
	DocType   string `json:"docType,omitempty"`
	ID        string `json:"ID"`
	Name      string `json:"Name"`
	Date      string `json:"Date"`
	EnterTime string `json:"EnterTime"`
	LeaveTime string `json:"LeaveTime"`
}
