/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

// A Contract object represents a smart contract instance in a network.
// Applications should get a Contract instance from a Network using the
// GetContract method.
type Contract struct {
	network     *Network
	chaincodeID string
}

// Name returns the name of the smart contract
func (c *Contract) Name() string {
	return c.chaincodeID
}

// EvaluateTransaction will evaluate a transaction function and return its
// results. The transaction is executed on the gateway peer but is not sent
// to the ordering service, so nothing is committed to the ledger. This can
// be used for querying the world state.
//  Parameters:
//  name is the name of the transaction function to be invoked in the smart contract.
//  args are the arguments to be sent to the transaction function.
//
//  Returns:
//  The return value of the transaction function in the smart contract.
func (c *Contract) EvaluateTransaction(name string, args ...string) ([]byte, error) {
	txn, err := c.CreateTransaction(name)
	if err != nil {
		return nil, err
	}

	return txn.Evaluate(args...)
}

// SubmitTransaction will submit a transaction to the ledger: endorse, hand
// off to ordering, then block until a terminal commit status or the
// commit-status deadline. An unsuccessful validation code is returned as
// an error, never as a silent success.
//  Parameters:
//  name is the name of the transaction function to be invoked in the smart contract.
//  args are the arguments to be sent to the transaction function.
//
//  Returns:
//  The return value of the transaction function in the smart contract.
func (c *Contract) SubmitTransaction(name string, args ...string) ([]byte, error) {
	txn, err := c.CreateTransaction(name)
	if err != nil {
		return nil, err
	}

	return txn.Submit(args...)
}

// SubmitAsync submits a transaction to the ledger and returns as soon as
// ordering has accepted it, together with the endorsement result and a
// Commit handle the caller can use to await durability separately. The
// result is available strictly before the commit resolves.
func (c *Contract) SubmitAsync(name string, args ...string) ([]byte, Commit, error) {
	txn, err := c.CreateTransaction(name)
	if err != nil {
		return nil, nil, err
	}

	return txn.SubmitAsync(args...)
}

// CreateTransaction creates an object representing a specific invocation of
// a transaction function implemented by this contract, and provides more
// control over the invocation using the optional arguments. A new
// transaction object must be created for each transaction invocation.
func (c *Contract) CreateTransaction(name string, opts ...TransactionOption) (*Transaction, error) {
	return newTransaction(name, c, opts...)
}
