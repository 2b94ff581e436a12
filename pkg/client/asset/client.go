/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package asset provides the application-level client for the basic asset
// transfer chaincode. It maps typed operations onto the contract's
// transaction functions and decodes the JSON records the chaincode returns.
package asset

import (
	"encoding/json"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-asset-gateway/pkg/asset"
	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
	"github.com/hyperledger/fabric-asset-gateway/pkg/gateway"
)

var logger = logging.MustGetLogger("assetgw/client")

// Contract is the subset of the gateway contract surface this client uses.
type Contract interface {
	EvaluateTransaction(name string, args ...string) ([]byte, error)
	SubmitTransaction(name string, args ...string) ([]byte, error)
	SubmitAsync(name string, args ...string) ([]byte, gateway.Commit, error)
}

// Client invokes the asset transfer chaincode through a contract handle.
type Client struct {
	contract Contract
}

// New returns a client bound to the given contract.
func New(contract Contract) *Client {
	return &Client{contract: contract}
}

// InitLedger populates the ledger with the chaincode's initial set of
// assets. Typically run once after deployment; re-running is harmless but
// resets the seeded records.
func (c *Client) InitLedger() error {
	if _, err := c.contract.SubmitTransaction("InitLedger"); err != nil {
		return errors.WithMessage(err, "failed to initialize ledger")
	}

	logger.Info("Ledger initialized")
	return nil
}

// CreateAsset records a new attendance asset on the ledger and blocks until
// it commits.
func (c *Client) CreateAsset(id, name, enterTime, leaveTime string) error {
	if id == "" {
		return status.New(status.ClientStatus, status.ValidationFailed.ToInt32(), "asset ID is required", nil)
	}

	if _, err := c.contract.SubmitTransaction("CreateAsset", id, name, enterTime, leaveTime); err != nil {
		return errors.WithMessagef(err, "failed to create asset %s", id)
	}

	logger.Debugf("Asset [%s] created", id)
	return nil
}

// UpdateAsset overwrites an existing asset, preserving any field the caller
// leaves nil by reading the current record first. The read and the update
// are separate transactions; a concurrent writer between them loses to this
// update's values.
func (c *Client) UpdateAsset(id string, name, enterTime, leaveTime *string) error {
	if id == "" {
		return status.New(status.ClientStatus, status.ValidationFailed.ToInt32(), "asset ID is required", nil)
	}

	current, err := c.ReadAsset(id)
	if err != nil {
		return err
	}

	if _, err := c.contract.SubmitTransaction("UpdateAsset", id,
		orDefault(name, current.Name),
		orDefault(enterTime, current.EnterTime),
		orDefault(leaveTime, current.LeaveTime)); err != nil {
		return errors.WithMessagef(err, "failed to update asset %s", id)
	}

	logger.Debugf("Asset [%s] updated", id)
	return nil
}

// ReadAsset returns the asset with the given ID from world state.
func (c *Client) ReadAsset(id string) (*asset.Asset, error) {
	if id == "" {
		return nil, status.New(status.ClientStatus, status.ValidationFailed.ToInt32(), "asset ID is required", nil)
	}

	result, err := c.contract.EvaluateTransaction("ReadAsset", id)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read asset %s", id)
	}

	record := &asset.Asset{}
	if err := json.Unmarshal(result, record); err != nil {
		return nil, errors.Wrapf(err, "failed to decode asset %s", id)
	}

	return record, nil
}

// GetAllAssets returns every asset in world state.
func (c *Client) GetAllAssets() ([]asset.Asset, error) {
	result, err := c.contract.EvaluateTransaction("GetAllAssets")
	if err != nil {
		return nil, errors.WithMessage(err, "failed to query assets")
	}
	if len(result) == 0 {
		return []asset.Asset{}, nil
	}

	var records []asset.Asset
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode asset list")
	}

	return records, nil
}

// TransferAsset reassigns an asset to a new owner asynchronously. It
// returns the previous owner as soon as ordering accepts the transaction,
// together with a commit handle the caller can use to await durability.
func (c *Client) TransferAsset(id, newOwner string) (string, gateway.Commit, error) {
	if id == "" {
		return "", nil, status.New(status.ClientStatus, status.ValidationFailed.ToInt32(), "asset ID is required", nil)
	}

	result, commit, err := c.contract.SubmitAsync("TransferAsset", id, newOwner)
	if err != nil {
		return "", nil, errors.WithMessagef(err, "failed to transfer asset %s", id)
	}

	logger.Debugf("Asset [%s] transfer submitted in transaction [%s]", id, commit.TransactionID())
	return string(result), commit, nil
}

func orDefault(value *string, fallback string) string {
	if value != nil {
		return *value
	}
	return fallback
}
