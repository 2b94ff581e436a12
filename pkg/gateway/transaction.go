/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"github.com/golang/protobuf/proto"
	gatewaypb "github.com/hyperledger/fabric-protos-go/gateway"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/hyperledger/fabric-asset-gateway/internal/protoutil"
	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

// A Transaction represents a specific invocation of a transaction function,
// and provides flexibility over how that transaction is invoked.
// Applications should obtain instances from a Contract using the
// CreateTransaction method.
//
// Instances are stateful. A new instance must be created for each
// transaction invocation.
type Transaction struct {
	name      string
	contract  *Contract
	transient map[string][]byte
}

// TransactionOption functional arguments can be supplied when creating a
// transaction object.
type TransactionOption func(*Transaction) error

func newTransaction(name string, contract *Contract, opts ...TransactionOption) (*Transaction, error) {
	if name == "" {
		return nil, errors.New("transaction name is required")
	}

	txn := &Transaction{
		name:     name,
		contract: contract,
	}

	for _, opt := range opts {
		if err := opt(txn); err != nil {
			return nil, err
		}
	}

	return txn, nil
}

// WithTransient sets the transient data that will be passed to the
// transaction function but will not be stored on the ledger. This can be
// used to pass private data to a transaction function.
func WithTransient(data map[string][]byte) TransactionOption {
	return func(txn *Transaction) error {
		txn.transient = data
		return nil
	}
}

// Evaluate runs the transaction function as a read-only query on the
// gateway peer, bounded by the evaluate deadline. Ledger state is not
// modified.
func (txn *Transaction) Evaluate(args ...string) ([]byte, error) {
	gw := txn.gateway()

	signedProposal, txID, err := txn.newSignedProposal(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := callContext(gw.deadlines.evaluate)
	defer cancel()

	response, err := gw.client.Evaluate(ctx, &gatewaypb.EvaluateRequest{
		TransactionId:       txID,
		ChannelId:           txn.contract.network.name,
		ProposedTransaction: signedProposal,
	})
	if err != nil {
		return nil, errors.WithMessagef(translateRPCError(err), "failed to evaluate %s", txn.name)
	}

	return response.GetResult().GetPayload(), nil
}

// Submit endorses the transaction, hands it to ordering, then waits for its
// commit status. See Contract.SubmitTransaction.
func (txn *Transaction) Submit(args ...string) ([]byte, error) {
	result, commit, err := txn.SubmitAsync(args...)
	if err != nil {
		return nil, err
	}

	commitStatus, err := commit.Status()
	if err != nil {
		return nil, err
	}
	if !commitStatus.Successful {
		return nil, status.New(status.CommitValidationStatus, int32(commitStatus.Code),
			"transaction "+commitStatus.TransactionID+" failed to commit with status "+commitStatus.Code.String(), nil)
	}

	return result, nil
}

// SubmitAsync endorses the transaction and hands it to ordering, returning
// the endorsement result and a Commit handle without waiting for the commit
// to become durable. See Contract.SubmitAsync.
func (txn *Transaction) SubmitAsync(args ...string) ([]byte, Commit, error) {
	gw := txn.gateway()
	channelID := txn.contract.network.name

	signedProposal, txID, err := txn.newSignedProposal(args)
	if err != nil {
		return nil, nil, err
	}

	endorseCtx, endorseCancel := callContext(gw.deadlines.endorse)
	defer endorseCancel()

	endorseResponse, err := gw.client.Endorse(endorseCtx, &gatewaypb.EndorseRequest{
		TransactionId:       txID,
		ChannelId:           channelID,
		ProposedTransaction: signedProposal,
	})
	if err != nil {
		return nil, nil, errors.WithMessagef(translateRPCError(err), "failed to endorse %s", txn.name)
	}

	envelope := endorseResponse.GetPreparedTransaction()
	result, err := protoutil.GetResponsePayload(envelope)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to extract result from prepared transaction")
	}

	envelope.Signature, err = gw.sign(envelope.Payload)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to sign prepared transaction")
	}

	submitCtx, submitCancel := callContext(gw.deadlines.submit)
	defer submitCancel()

	_, err = gw.client.Submit(submitCtx, &gatewaypb.SubmitRequest{
		TransactionId:       txID,
		ChannelId:           channelID,
		PreparedTransaction: envelope,
	})
	if err != nil {
		return nil, nil, errors.WithMessagef(translateRPCError(err), "failed to submit %s", txn.name)
	}

	logger.Debugf("Transaction [%s] submitted to ordering on channel [%s]", txID, channelID)

	return result, &commit{gateway: gw, channelID: channelID, transactionID: txID}, nil
}

func (txn *Transaction) newSignedProposal(args []string) (*pb.SignedProposal, string, error) {
	gw := txn.gateway()

	nonce, err := protoutil.CreateNonce()
	if err != nil {
		return nil, "", err
	}
	txID := protoutil.ComputeTxID(nonce, gw.creator)

	proposal, err := protoutil.CreateChaincodeProposal(txID, txn.contract.network.name,
		txn.contract.chaincodeID, nonce, gw.creator, txn.transient, txn.name, args)
	if err != nil {
		return nil, "", err
	}

	proposalBytes, err := marshalProposal(proposal)
	if err != nil {
		return nil, "", err
	}

	signature, err := gw.sign(proposalBytes)
	if err != nil {
		return nil, "", errors.WithMessage(err, "failed to sign proposal")
	}

	return &pb.SignedProposal{ProposalBytes: proposalBytes, Signature: signature}, txID, nil
}

func marshalProposal(proposal *pb.Proposal) ([]byte, error) {
	proposalBytes, err := proto.Marshal(proposal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal proposal")
	}
	return proposalBytes, nil
}

func (txn *Transaction) gateway() *Gateway {
	return txn.contract.network.gateway
}

// translateRPCError maps a gRPC invocation failure onto the client's status
// taxonomy. Errors carrying gateway ErrorDetail entries originate in remote
// chaincode execution; an Aborted response without detail means the gateway
// could not collect the required endorsements; anything else is reported as
// a transport-level status (including deadline expiry).
func translateRPCError(err error) error {
	rpcStatus, ok := grpcstatus.FromError(err)
	if !ok {
		return status.New(status.UnknownStatus, status.Unknown.ToInt32(), err.Error(), nil)
	}

	for _, detail := range rpcStatus.Details() {
		if d, ok := detail.(*gatewaypb.ErrorDetail); ok {
			return status.New(status.ChaincodeStatus, int32(rpcStatus.Code()), d.GetMessage(),
				[]interface{}{d.GetAddress(), d.GetMspId()})
		}
	}

	if rpcStatus.Code() == grpccodes.Aborted || rpcStatus.Code() == grpccodes.FailedPrecondition {
		return status.New(status.GatewayServerStatus, status.EndorsementFailed.ToInt32(), rpcStatus.Message(), nil)
	}

	return status.NewFromGRPCStatus(rpcStatus)
}
