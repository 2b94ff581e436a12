/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

func TestNewConnectionMissingEndpoint(t *testing.T) {
	_, err := NewConnection("")
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.EqualValues(t, status.ClientStatus, s.Group)
}

func TestNewConnectionMissingTLSCert(t *testing.T) {
	_, err := NewConnection("localhost:7051",
		WithTLSCertPath(filepath.Join(t.TempDir(), "nosuch.crt")),
		WithServerNameOverride("peer0.org1.example.com"))
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.EqualValues(t, status.GRPCTransportStatus, s.Group)
	assert.EqualValues(t, status.ConnectionFailed.ToInt32(), s.Code)
}

func TestNewConnectionInsecure(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := grpc.NewServer()
	go func() {
		_ = server.Serve(lis)
	}()
	defer server.Stop()

	conn, err := NewConnection(lis.Addr().String(), WithInsecure(), WithConnectTimeout(5*time.Second))
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func TestNewConnectionDialFailure(t *testing.T) {
	// reserve a port and close it again so nothing is listening there
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	_, err = NewConnection(addr, WithInsecure(), WithConnectTimeout(2*time.Second))
	require.Error(t, err)

	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.EqualValues(t, status.ConnectionFailed.ToInt32(), s.Code)
}
