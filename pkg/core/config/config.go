/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config resolves runtime settings from the environment, with
// working defaults for the local test network. Every value can be
// overridden by its environment variable; path settings default to
// locations derived from CRYPTO_PATH.
package config

import (
	"path/filepath"
	"time"

	logging "github.com/op/go-logging"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/hyperledger/fabric-asset-gateway/pkg/gateway"
)

var logger = logging.MustGetLogger("assetgw/config")

// Environment variable names recognized by FromEnvironment.
const (
	EnvChannelName      = "CHANNEL_NAME"
	EnvChaincodeName    = "CHAINCODE_NAME"
	EnvMSPID            = "MSP_ID"
	EnvCryptoPath       = "CRYPTO_PATH"
	EnvKeyDirectoryPath = "KEY_DIRECTORY_PATH"
	EnvCertPath         = "CERT_PATH"
	EnvTLSCertPath      = "TLS_CERT_PATH"
	EnvPeerEndpoint     = "PEER_ENDPOINT"
	EnvPeerHostAlias    = "PEER_HOST_ALIAS"
	EnvListenAddress    = "LISTEN_ADDRESS"

	EnvEvaluateTimeout     = "EVALUATE_TIMEOUT"
	EnvEndorseTimeout      = "ENDORSE_TIMEOUT"
	EnvSubmitTimeout       = "SUBMIT_TIMEOUT"
	EnvCommitStatusTimeout = "COMMIT_STATUS_TIMEOUT"
)

// Config holds every runtime setting of the gateway process.
type Config struct {
	ChannelName   string
	ChaincodeName string
	MSPID         string

	CryptoPath       string
	KeyDirectoryPath string
	CertPath         string
	TLSCertPath      string

	PeerEndpoint  string
	PeerHostAlias string

	ListenAddress string

	EvaluateTimeout     time.Duration
	EndorseTimeout      time.Duration
	SubmitTimeout       time.Duration
	CommitStatusTimeout time.Duration
}

// FromEnvironment builds a Config from the process environment. Key and
// certificate path defaults follow the identity layout of the local test
// network under CRYPTO_PATH, so overriding CRYPTO_PATH alone relocates all
// of them.
func FromEnvironment() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvChannelName, "mychannel")
	v.SetDefault(EnvChaincodeName, "basic")
	v.SetDefault(EnvMSPID, "Org1MSP")
	v.SetDefault(EnvCryptoPath, "../../test-network/organizations/peerOrganizations/org1.example.com")
	v.SetDefault(EnvPeerEndpoint, "localhost:7051")
	v.SetDefault(EnvPeerHostAlias, "peer0.org1.example.com")
	v.SetDefault(EnvListenAddress, ":3000")

	cryptoPath := v.GetString(EnvCryptoPath)

	cfg := &Config{
		ChannelName:      v.GetString(EnvChannelName),
		ChaincodeName:    v.GetString(EnvChaincodeName),
		MSPID:            v.GetString(EnvMSPID),
		CryptoPath:       cryptoPath,
		KeyDirectoryPath: v.GetString(EnvKeyDirectoryPath),
		CertPath:         v.GetString(EnvCertPath),
		TLSCertPath:      v.GetString(EnvTLSCertPath),
		PeerEndpoint:     v.GetString(EnvPeerEndpoint),
		PeerHostAlias:    v.GetString(EnvPeerHostAlias),
		ListenAddress:    v.GetString(EnvListenAddress),

		EvaluateTimeout:     durationOr(v, EnvEvaluateTimeout, gateway.DefaultEvaluateTimeout),
		EndorseTimeout:      durationOr(v, EnvEndorseTimeout, gateway.DefaultEndorseTimeout),
		SubmitTimeout:       durationOr(v, EnvSubmitTimeout, gateway.DefaultSubmitTimeout),
		CommitStatusTimeout: durationOr(v, EnvCommitStatusTimeout, gateway.DefaultCommitStatusTimeout),
	}

	if cfg.KeyDirectoryPath == "" {
		cfg.KeyDirectoryPath = filepath.Join(cryptoPath, "users", "User1@org1.example.com", "msp", "keystore")
	}
	if cfg.CertPath == "" {
		cfg.CertPath = filepath.Join(cryptoPath, "users", "User1@org1.example.com", "msp", "signcerts", "cert.pem")
	}
	if cfg.TLSCertPath == "" {
		cfg.TLSCertPath = filepath.Join(cryptoPath, "peers", "peer0.org1.example.com", "tls", "ca.crt")
	}

	return cfg
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return fallback
	}

	d, err := cast.ToDurationE(raw)
	if err != nil || d <= 0 {
		logger.Warningf("Ignoring invalid %s value [%s], using %s", key, raw, fallback)
		return fallback
	}

	return d
}

// LogParameters writes the resolved settings at startup. Key material is
// never logged, only the paths it is loaded from.
func (c *Config) LogParameters() {
	logger.Infof("channelName:         %s", c.ChannelName)
	logger.Infof("chaincodeName:       %s", c.ChaincodeName)
	logger.Infof("mspId:               %s", c.MSPID)
	logger.Infof("cryptoPath:          %s", c.CryptoPath)
	logger.Infof("keyDirectoryPath:    %s", c.KeyDirectoryPath)
	logger.Infof("certPath:            %s", c.CertPath)
	logger.Infof("tlsCertPath:         %s", c.TLSCertPath)
	logger.Infof("peerEndpoint:        %s", c.PeerEndpoint)
	logger.Infof("peerHostAlias:       %s", c.PeerHostAlias)
	logger.Infof("listenAddress:       %s", c.ListenAddress)
}
