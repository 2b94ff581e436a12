/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package protoutil assembles and disassembles the protobuf structures
// exchanged with the gateway peer: chaincode invocation proposals on the way
// out, prepared transaction envelopes on the way back.
package protoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/hyperledger/fabric-protos-go/msp"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

// NonceLength is the size in bytes of the random nonce bound into every
// proposal. Matches the value used by the Fabric client SDKs.
const NonceLength = 24

// SerializeIdentity marshals an MSP ID and a PEM credential into the
// creator bytes carried in proposal signature headers.
func SerializeIdentity(mspID string, credentials []byte) ([]byte, error) {
	if mspID == "" {
		return nil, errors.New("mspID is required")
	}
	if len(credentials) == 0 {
		return nil, errors.New("credentials are required")
	}

	creator, err := proto.Marshal(&msp.SerializedIdentity{Mspid: mspID, IdBytes: credentials})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal serialized identity")
	}
	return creator, nil
}

// CreateNonce generates a random nonce for a new proposal.
func CreateNonce() ([]byte, error) {
	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "failed to generate random nonce")
	}
	return nonce, nil
}

// ComputeTxID derives the transaction ID from the nonce and creator, the
// same way the peer will when validating the proposal.
func ComputeTxID(nonce, creator []byte) string {
	h := sha256.New()
	h.Write(nonce)
	h.Write(creator)
	return hex.EncodeToString(h.Sum(nil))
}

// CreateChaincodeProposal creates an ENDORSER_TRANSACTION proposal invoking
// fcn with ordered string arguments on the named chaincode.
func CreateChaincodeProposal(txID, channelID, chaincodeID string, nonce, creator []byte, transient map[string][]byte, fcn string, args []string) (*pb.Proposal, error) {
	if chaincodeID == "" {
		return nil, errors.New("chaincodeID is required")
	}
	if fcn == "" {
		return nil, errors.New("fcn is required")
	}

	// Add function name to arguments
	argsArray := make([][]byte, len(args)+1)
	argsArray[0] = []byte(fcn)
	for i, arg := range args {
		argsArray[i+1] = []byte(arg)
	}

	ccis := &pb.ChaincodeInvocationSpec{ChaincodeSpec: &pb.ChaincodeSpec{
		ChaincodeId: &pb.ChaincodeID{Name: chaincodeID},
		Input:       &pb.ChaincodeInput{Args: argsArray},
	}}
	ccisBytes, err := proto.Marshal(ccis)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chaincode invocation spec")
	}

	ccHdrExt := &pb.ChaincodeHeaderExtension{ChaincodeId: ccis.ChaincodeSpec.ChaincodeId}
	ccHdrExtBytes, err := proto.Marshal(ccHdrExt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chaincode header extension")
	}

	ccPropPayload, err := proto.Marshal(&pb.ChaincodeProposalPayload{Input: ccisBytes, TransientMap: transient})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chaincode proposal payload")
	}

	channelHdr, err := proto.Marshal(&common.ChannelHeader{
		Type:      int32(common.HeaderType_ENDORSER_TRANSACTION),
		TxId:      txID,
		Timestamp: ptypes.TimestampNow(),
		ChannelId: channelID,
		Extension: ccHdrExtBytes,
		Epoch:     0,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal channel header")
	}

	signatureHdr, err := proto.Marshal(&common.SignatureHeader{Creator: creator, Nonce: nonce})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal signature header")
	}

	headerBytes, err := proto.Marshal(&common.Header{ChannelHeader: channelHdr, SignatureHeader: signatureHdr})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal proposal header")
	}

	return &pb.Proposal{Header: headerBytes, Payload: ccPropPayload}, nil
}

// GetResponsePayload extracts the chaincode response payload from a
// prepared transaction envelope returned by the gateway's Endorse call.
func GetResponsePayload(envelope *common.Envelope) ([]byte, error) {
	if envelope == nil {
		return nil, errors.New("prepared transaction envelope is nil")
	}

	payload := &common.Payload{}
	if err := proto.Unmarshal(envelope.Payload, payload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal envelope payload")
	}

	transaction := &pb.Transaction{}
	if err := proto.Unmarshal(payload.Data, transaction); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal transaction")
	}
	if len(transaction.Actions) == 0 {
		return nil, errors.New("prepared transaction contains no actions")
	}

	actionPayload := &pb.ChaincodeActionPayload{}
	if err := proto.Unmarshal(transaction.Actions[0].Payload, actionPayload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal chaincode action payload")
	}
	if actionPayload.Action == nil {
		return nil, errors.New("chaincode action payload is missing its endorsed action")
	}

	responsePayload := &pb.ProposalResponsePayload{}
	if err := proto.Unmarshal(actionPayload.Action.ProposalResponsePayload, responsePayload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal proposal response payload")
	}

	chaincodeAction := &pb.ChaincodeAction{}
	if err := proto.Unmarshal(responsePayload.Extension, chaincodeAction); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal chaincode action")
	}
	if chaincodeAction.Response == nil {
		return nil, errors.New("chaincode action is missing its response")
	}

	return chaincodeAction.Response.Payload, nil
}

// CreatePreparedTransaction builds a minimal prepared transaction envelope
// carrying the given chaincode result. It is the inverse of
// GetResponsePayload and is used by in-process gateway mocks.
func CreatePreparedTransaction(channelID, txID string, result []byte) (*common.Envelope, error) {
	chaincodeAction, err := proto.Marshal(&pb.ChaincodeAction{
		Response: &pb.Response{Status: 200, Payload: result},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chaincode action")
	}

	responsePayload, err := proto.Marshal(&pb.ProposalResponsePayload{Extension: chaincodeAction})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal proposal response payload")
	}

	actionPayload, err := proto.Marshal(&pb.ChaincodeActionPayload{
		Action: &pb.ChaincodeEndorsedAction{ProposalResponsePayload: responsePayload},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chaincode action payload")
	}

	transaction, err := proto.Marshal(&pb.Transaction{
		Actions: []*pb.TransactionAction{{Payload: actionPayload}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	channelHdr, err := proto.Marshal(&common.ChannelHeader{
		Type:      int32(common.HeaderType_ENDORSER_TRANSACTION),
		ChannelId: channelID,
		TxId:      txID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal channel header")
	}

	payload, err := proto.Marshal(&common.Payload{
		Header: &common.Header{ChannelHeader: channelHdr},
		Data:   transaction,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	return &common.Envelope{Payload: payload}, nil
}
