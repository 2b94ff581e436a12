/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

// A Network object represents one channel of the ledger network.
// Applications should get a Network instance from a Gateway using the
// GetNetwork method.
type Network struct {
	gateway *Gateway
	name    string
}

// Name is the name of the network (also known as channel name)
func (n *Network) Name() string {
	return n.name
}

// GetContract returns a handle to the named chaincode on this channel.
// This is a cheap, side-effect-free lookup.
func (n *Network) GetContract(chaincodeID string) *Contract {
	return &Contract{network: n, chaincodeID: chaincodeID}
}
