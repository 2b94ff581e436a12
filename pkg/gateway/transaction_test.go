/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package gateway_test

import (
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	gatewaypb "github.com/hyperledger/fabric-protos-go/gateway"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/hyperledger/fabric-asset-gateway/internal/test/mocks"
	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
	"github.com/hyperledger/fabric-asset-gateway/pkg/gateway"
)

func TestEvaluateReturnsResult(t *testing.T) {
	srv := &mocks.GatewayServer{EvaluateResult: []byte(`[{"ID":"asset1"}]`)}
	contract := newTestContract(t, srv)

	result, err := contract.EvaluateTransaction("GetAllAssets")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"ID":"asset1"}]`), result)

	requests := srv.EvaluateRequests()
	require.Len(t, requests, 1)
	require.Equal(t, testChannel, requests[0].ChannelId)
	require.NotEmpty(t, requests[0].TransactionId)
	require.NotEmpty(t, requests[0].GetProposedTransaction().GetSignature())
}

func TestEvaluateSendsProposalArgs(t *testing.T) {
	srv := &mocks.GatewayServer{}
	contract := newTestContract(t, srv)

	_, err := contract.EvaluateTransaction("ReadAsset", "asset1")
	require.NoError(t, err)

	requests := srv.EvaluateRequests()
	require.Len(t, requests, 1)

	var proposal pb.Proposal
	require.NoError(t, proto.Unmarshal(requests[0].GetProposedTransaction().GetProposalBytes(), &proposal))

	var payload pb.ChaincodeProposalPayload
	require.NoError(t, proto.Unmarshal(proposal.Payload, &payload))
	var spec pb.ChaincodeInvocationSpec
	require.NoError(t, proto.Unmarshal(payload.Input, &spec))

	args := spec.GetChaincodeSpec().GetInput().GetArgs()
	require.Equal(t, [][]byte{[]byte("ReadAsset"), []byte("asset1")}, args)
	require.Equal(t, testChaincode, spec.GetChaincodeSpec().GetChaincodeId().GetName())
}

func TestEvaluateDeadlineExpires(t *testing.T) {
	srv := &mocks.GatewayServer{EvaluateDelay: 500 * time.Millisecond}
	contract := newTestContract(t, srv, gateway.WithEvaluateTimeout(50*time.Millisecond))

	_, err := contract.EvaluateTransaction("GetAllAssets")
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, status.GRPCTransportStatus, s.Group)
	require.EqualValues(t, grpccodes.DeadlineExceeded, s.Code)
}

func TestEvaluateChaincodeError(t *testing.T) {
	rpcStatus, err := grpcstatus.New(grpccodes.Aborted, "evaluate call to endorser returned error").
		WithDetails(&gatewaypb.ErrorDetail{
			Address: "peer0.org1.example.com:7051",
			MspId:   testMSPID,
			Message: "the asset asset1 does not exist",
		})
	require.NoError(t, err)

	srv := &mocks.GatewayServer{EvaluateError: rpcStatus.Err()}
	contract := newTestContract(t, srv)

	_, err = contract.EvaluateTransaction("ReadAsset", "asset1")
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, status.ChaincodeStatus, s.Group)
	require.Contains(t, s.Message, "the asset asset1 does not exist")
	require.Contains(t, s.Details, "peer0.org1.example.com:7051")
}

func TestSubmitReturnsEndorsedResult(t *testing.T) {
	srv := &mocks.GatewayServer{EndorseResult: []byte(`{"ID":"asset1"}`)}
	contract := newTestContract(t, srv)

	result, err := contract.SubmitTransaction("CreateAsset", "asset1", "alice", "09:00", "17:00")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"ID":"asset1"}`), result)

	submits := srv.SubmitRequests()
	require.Len(t, submits, 1)
	require.NotEmpty(t, submits[0].GetPreparedTransaction().GetSignature())
	require.Len(t, srv.CommitStatusRequests(), 1)
}

func TestSubmitCommitFailureIsAnError(t *testing.T) {
	srv := &mocks.GatewayServer{CommitResult: pb.TxValidationCode_MVCC_READ_CONFLICT}
	contract := newTestContract(t, srv)

	_, err := contract.SubmitTransaction("UpdateAsset", "asset1", "alice", "09:00", "17:00")
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, status.CommitValidationStatus, s.Group)
	require.EqualValues(t, pb.TxValidationCode_MVCC_READ_CONFLICT, s.Code)
	require.Contains(t, s.Message, "MVCC_READ_CONFLICT")
}

func TestSubmitEndorsementFailure(t *testing.T) {
	srv := &mocks.GatewayServer{
		EndorseError: grpcstatus.Error(grpccodes.Aborted, "failed to collect enough transaction endorsements"),
	}
	contract := newTestContract(t, srv)

	_, err := contract.SubmitTransaction("CreateAsset", "asset1", "alice", "09:00", "17:00")
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, status.GatewayServerStatus, s.Group)
	require.EqualValues(t, status.EndorsementFailed.ToInt32(), s.Code)
	require.Len(t, srv.SubmitRequests(), 0)
}

func TestSubmitAsyncResultBeforeCommit(t *testing.T) {
	srv := &mocks.GatewayServer{EndorseResult: []byte("transferred")}
	contract := newTestContract(t, srv)

	result, commit, err := contract.SubmitAsync("TransferAsset", "asset1", "bob")
	require.NoError(t, err)
	require.Equal(t, []byte("transferred"), result)
	require.NotEmpty(t, commit.TransactionID())

	// The endorsed result is in hand before any commit-status call is made.
	require.Len(t, srv.CommitStatusRequests(), 0)

	commitStatus, err := commit.Status()
	require.NoError(t, err)
	require.True(t, commitStatus.Successful)
	require.Equal(t, pb.TxValidationCode_VALID, commitStatus.Code)
	require.Equal(t, commit.TransactionID(), commitStatus.TransactionID)
	require.Len(t, srv.CommitStatusRequests(), 1)
}

func TestSubmitAsyncCommitStatusDeadline(t *testing.T) {
	srv := &mocks.GatewayServer{CommitDelay: 500 * time.Millisecond}
	contract := newTestContract(t, srv, gateway.WithCommitStatusTimeout(50*time.Millisecond))

	_, commit, err := contract.SubmitAsync("CreateAsset", "asset1", "alice", "09:00", "17:00")
	require.NoError(t, err)

	_, err = commit.Status()
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, status.GRPCTransportStatus, s.Group)
	require.EqualValues(t, grpccodes.DeadlineExceeded, s.Code)
}

func TestTransientDataIsCarried(t *testing.T) {
	srv := &mocks.GatewayServer{}
	contract := newTestContract(t, srv)

	txn, err := contract.CreateTransaction("ReadAsset", gateway.WithTransient(map[string][]byte{"secret": []byte("value")}))
	require.NoError(t, err)

	_, err = txn.Evaluate("asset1")
	require.NoError(t, err)

	requests := srv.EvaluateRequests()
	require.Len(t, requests, 1)

	var proposal pb.Proposal
	require.NoError(t, proto.Unmarshal(requests[0].GetProposedTransaction().GetProposalBytes(), &proposal))
	var payload pb.ChaincodeProposalPayload
	require.NoError(t, proto.Unmarshal(proposal.Payload, &payload))
	require.Equal(t, []byte("value"), payload.TransientMap["secret"])
}
