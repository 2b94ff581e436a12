/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package gateway implements the ledger-gateway client: a logical session
// that binds the shared gRPC connection and a signing identity to one
// gateway peer, and issues evaluate, submit and commit-status calls against
// named contract functions.
//
// A Gateway and the Network/Contract handles derived from it are stateless
// and safe for concurrent use. All calls multiplex over the one connection
// supplied to Connect; the Gateway does not own that connection and never
// closes it.
package gateway

import (
	"context"
	"time"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
	gatewaypb "github.com/hyperledger/fabric-protos-go/gateway"
	"google.golang.org/grpc"

	"github.com/hyperledger/fabric-asset-gateway/internal/protoutil"
	"github.com/hyperledger/fabric-asset-gateway/pkg/identity"
)

var logger = logging.MustGetLogger("assetgw/gateway")

// Default deadlines for the four call categories. Each call computes its
// absolute deadline freshly as now + offset.
const (
	DefaultEvaluateTimeout     = 5 * time.Second
	DefaultEndorseTimeout      = 15 * time.Second
	DefaultSubmitTimeout       = 5 * time.Second
	DefaultCommitStatusTimeout = time.Minute
)

// Gateway is a logical session with one gateway peer under one identity.
type Gateway struct {
	client    gatewaypb.GatewayClient
	identity  *identity.X509Identity
	sign      identity.Sign
	creator   []byte
	deadlines deadlinePolicy
}

type deadlinePolicy struct {
	evaluate     time.Duration
	endorse      time.Duration
	submit       time.Duration
	commitStatus time.Duration
}

// Option is a functional argument to Connect.
type Option func(*Gateway) error

// Connect binds the shared connection, identity and signer into a session.
// This is pure composition: no round trip is made.
func Connect(conn grpc.ClientConnInterface, id *identity.X509Identity, sign identity.Sign, opts ...Option) (*Gateway, error) {
	if conn == nil {
		return nil, errors.New("connection is required")
	}
	if id == nil {
		return nil, errors.New("identity is required")
	}
	if sign == nil {
		return nil, errors.New("signer is required")
	}

	creator, err := protoutil.SerializeIdentity(id.MSPID(), id.Credentials())
	if err != nil {
		return nil, errors.WithMessage(err, "failed to serialize identity")
	}

	gw := &Gateway{
		client:   gatewaypb.NewGatewayClient(conn.(*grpc.ClientConn)),
		identity: id,
		sign:     sign,
		creator:  creator,
		deadlines: deadlinePolicy{
			evaluate:     DefaultEvaluateTimeout,
			endorse:      DefaultEndorseTimeout,
			submit:       DefaultSubmitTimeout,
			commitStatus: DefaultCommitStatusTimeout,
		},
	}

	for _, opt := range opts {
		if err := opt(gw); err != nil {
			return nil, errors.WithMessage(err, "failed to apply gateway option")
		}
	}

	logger.Debugf("Gateway session created for MSP [%s]", id.MSPID())
	return gw, nil
}

// WithEvaluateTimeout sets the deadline offset for evaluate calls.
func WithEvaluateTimeout(timeout time.Duration) Option {
	return func(gw *Gateway) error {
		gw.deadlines.evaluate = timeout
		return nil
	}
}

// WithEndorseTimeout sets the deadline offset for endorse calls.
func WithEndorseTimeout(timeout time.Duration) Option {
	return func(gw *Gateway) error {
		gw.deadlines.endorse = timeout
		return nil
	}
}

// WithSubmitTimeout sets the deadline offset for submit calls. This bounds
// only the client's wait for the ordering hand-off, not full commit.
func WithSubmitTimeout(timeout time.Duration) Option {
	return func(gw *Gateway) error {
		gw.deadlines.submit = timeout
		return nil
	}
}

// WithCommitStatusTimeout sets the deadline offset for commit-status waits.
func WithCommitStatusTimeout(timeout time.Duration) Option {
	return func(gw *Gateway) error {
		gw.deadlines.commitStatus = timeout
		return nil
	}
}

// GetNetwork returns a handle to the named channel. This is a cheap,
// side-effect-free lookup.
func (gw *Gateway) GetNetwork(name string) *Network {
	return &Network{gateway: gw, name: name}
}

// Close releases session resources. The underlying connection is owned by
// the caller of Connect and is not closed here.
func (gw *Gateway) Close() {
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithDeadline(context.Background(), time.Now().Add(timeout))
}
