/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package comm establishes the single TLS-secured gRPC channel to the
// gateway peer. The connection is created once at startup, shared by every
// logical session in the process, and closed once at shutdown.
package comm

import (
	"context"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

var logger = logging.MustGetLogger("assetgw/comm")

// NewConnection dials the gateway peer endpoint and blocks until the
// channel is ready or the connect timeout elapses. A missing or
// unparseable TLS trust root fails here, before any caller can issue a
// ledger call over a half-initialized connection.
func NewConnection(endpoint string, opts ...Opt) (*grpc.ClientConn, error) {
	if endpoint == "" {
		return nil, status.New(status.ClientStatus, status.ValidationFailed.ToInt32(), "peer endpoint not specified", nil)
	}

	params := defaultParams()
	for _, opt := range opts {
		opt(params)
	}

	dialOpts, err := newDialOpts(params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), params.connectTimeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, endpoint, dialOpts...)
	if err != nil {
		return nil, status.New(status.GRPCTransportStatus, status.ConnectionFailed.ToInt32(),
			errors.Wrapf(err, "could not connect to %s", endpoint).Error(), nil)
	}

	logger.Debugf("Connected to gateway peer [%s]", endpoint)
	return conn, nil
}

func newDialOpts(params *params) ([]grpc.DialOption, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithBlock(),
		grpc.FailOnNonTempDialError(true),
	}

	if params.keepAliveParams.Time > 0 || params.keepAliveParams.Timeout > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(params.keepAliveParams))
	}

	if params.insecure {
		logger.Debugf("Creating an insecure connection")
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		return dialOpts, nil
	}

	creds, err := credentials.NewClientTLSFromFile(params.tlsCertPath, params.serverNameOverride)
	if err != nil {
		return nil, status.New(status.GRPCTransportStatus, status.ConnectionFailed.ToInt32(),
			errors.Wrapf(err, "failed to load TLS trust root %s", params.tlsCertPath).Error(), nil)
	}
	dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	logger.Debugf("Creating a secure connection with TLS HostOverride [%s]", params.serverNameOverride)

	return dialOpts, nil
}
