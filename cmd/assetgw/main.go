/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// assetgw serves the asset transfer chaincode over HTTP, multiplexing all
// ledger traffic over one gRPC connection to a single gateway peer.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logging "github.com/op/go-logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperledger/fabric-asset-gateway/internal/rest"
	assetclient "github.com/hyperledger/fabric-asset-gateway/pkg/client/asset"
	"github.com/hyperledger/fabric-asset-gateway/pkg/comm"
	"github.com/hyperledger/fabric-asset-gateway/pkg/core/config"
	"github.com/hyperledger/fabric-asset-gateway/pkg/gateway"
	"github.com/hyperledger/fabric-asset-gateway/pkg/identity"
	"github.com/hyperledger/fabric-asset-gateway/pkg/metrics"
)

var logger = logging.MustGetLogger("assetgw")

func main() {
	if err := run(); err != nil {
		logger.Fatalf("assetgw terminated: %s", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnvironment()
	cfg.LogParameters()

	id, err := identity.LoadIdentity(cfg.MSPID, cfg.CertPath)
	if err != nil {
		return err
	}

	sign, err := identity.LoadSigner(cfg.KeyDirectoryPath)
	if err != nil {
		return err
	}

	conn, err := comm.NewConnection(cfg.PeerEndpoint,
		comm.WithTLSCertPath(cfg.TLSCertPath),
		comm.WithServerNameOverride(cfg.PeerHostAlias))
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	gw, err := gateway.Connect(conn, id, sign,
		gateway.WithEvaluateTimeout(cfg.EvaluateTimeout),
		gateway.WithEndorseTimeout(cfg.EndorseTimeout),
		gateway.WithSubmitTimeout(cfg.SubmitTimeout),
		gateway.WithCommitStatusTimeout(cfg.CommitStatusTimeout))
	if err != nil {
		return err
	}
	defer gw.Close()

	contract := gw.GetNetwork(cfg.ChannelName).GetContract(cfg.ChaincodeName)

	registry := prometheus.NewRegistry()
	handler := rest.NewServer(assetclient.New(contract), metrics.New(registry), registry)

	server := &http.Server{Addr: cfg.ListenAddress, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.ListenAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
