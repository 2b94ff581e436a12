/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mocks provides an in-process gateway gRPC server for exercising
// the transaction client without a running peer.
package mocks

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	gatewaypb "github.com/hyperledger/fabric-protos-go/gateway"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/hyperledger/fabric-asset-gateway/internal/protoutil"
)

// GatewayServer is a configurable mock of the gateway service. The zero
// value evaluates and submits successfully with empty results and commits
// with TxValidationCode_VALID.
type GatewayServer struct {
	gatewaypb.UnimplementedGatewayServer

	EvaluateResult []byte
	EvaluateError  error
	EvaluateDelay  time.Duration

	EndorseResult []byte
	EndorseError  error

	SubmitError error

	CommitResult pb.TxValidationCode
	CommitError  error
	CommitDelay  time.Duration

	mu                   sync.Mutex
	evaluateRequests     []*gatewaypb.EvaluateRequest
	endorseRequests      []*gatewaypb.EndorseRequest
	submitRequests       []*gatewaypb.SubmitRequest
	commitStatusRequests []*gatewaypb.SignedCommitStatusRequest
}

// Evaluate implements the gateway Evaluate call.
func (s *GatewayServer) Evaluate(ctx context.Context, request *gatewaypb.EvaluateRequest) (*gatewaypb.EvaluateResponse, error) {
	s.mu.Lock()
	s.evaluateRequests = append(s.evaluateRequests, request)
	s.mu.Unlock()

	if err := wait(ctx, s.EvaluateDelay); err != nil {
		return nil, err
	}
	if s.EvaluateError != nil {
		return nil, s.EvaluateError
	}

	return &gatewaypb.EvaluateResponse{
		Result: &pb.Response{Status: 200, Payload: s.EvaluateResult},
	}, nil
}

// Endorse implements the gateway Endorse call, returning a prepared
// transaction that carries EndorseResult as its chaincode response.
func (s *GatewayServer) Endorse(ctx context.Context, request *gatewaypb.EndorseRequest) (*gatewaypb.EndorseResponse, error) {
	s.mu.Lock()
	s.endorseRequests = append(s.endorseRequests, request)
	s.mu.Unlock()

	if s.EndorseError != nil {
		return nil, s.EndorseError
	}

	envelope, err := protoutil.CreatePreparedTransaction(request.ChannelId, request.TransactionId, s.EndorseResult)
	if err != nil {
		return nil, err
	}

	return &gatewaypb.EndorseResponse{PreparedTransaction: envelope}, nil
}

// Submit implements the gateway Submit call.
func (s *GatewayServer) Submit(ctx context.Context, request *gatewaypb.SubmitRequest) (*gatewaypb.SubmitResponse, error) {
	s.mu.Lock()
	s.submitRequests = append(s.submitRequests, request)
	s.mu.Unlock()

	if s.SubmitError != nil {
		return nil, s.SubmitError
	}

	return &gatewaypb.SubmitResponse{}, nil
}

// CommitStatus implements the gateway CommitStatus call.
func (s *GatewayServer) CommitStatus(ctx context.Context, request *gatewaypb.SignedCommitStatusRequest) (*gatewaypb.CommitStatusResponse, error) {
	s.mu.Lock()
	s.commitStatusRequests = append(s.commitStatusRequests, request)
	s.mu.Unlock()

	if err := wait(ctx, s.CommitDelay); err != nil {
		return nil, err
	}
	if s.CommitError != nil {
		return nil, s.CommitError
	}

	return &gatewaypb.CommitStatusResponse{Result: s.CommitResult}, nil
}

// EvaluateRequests returns the Evaluate requests received so far.
func (s *GatewayServer) EvaluateRequests() []*gatewaypb.EvaluateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*gatewaypb.EvaluateRequest(nil), s.evaluateRequests...)
}

// EndorseRequests returns the Endorse requests received so far.
func (s *GatewayServer) EndorseRequests() []*gatewaypb.EndorseRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*gatewaypb.EndorseRequest(nil), s.endorseRequests...)
}

// SubmitRequests returns the Submit requests received so far.
func (s *GatewayServer) SubmitRequests() []*gatewaypb.SubmitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*gatewaypb.SubmitRequest(nil), s.submitRequests...)
}

// CommitStatusRequests returns the CommitStatus requests received so far.
func (s *GatewayServer) CommitStatusRequests() []*gatewaypb.SignedCommitStatusRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*gatewaypb.SignedCommitStatusRequest(nil), s.commitStatusRequests...)
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// StartGatewayServer serves the given mock over an in-memory listener and
// returns a client connection to it. Server and connection are torn down
// when the test finishes.
func StartGatewayServer(t *testing.T, srv gatewaypb.GatewayServer) *grpc.ClientConn {
	t.Helper()

	listener := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()
	gatewaypb.RegisterGatewayServer(server, srv)

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.Dial("bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial bufconn: %s", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return conn
}
