/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"time"

	"google.golang.org/grpc/keepalive"
)

const defaultConnectTimeout = 10 * time.Second

type params struct {
	tlsCertPath        string
	serverNameOverride string
	connectTimeout     time.Duration
	keepAliveParams    keepalive.ClientParameters
	insecure           bool
}

func defaultParams() *params {
	return &params{
		connectTimeout: defaultConnectTimeout,
	}
}

// Opt is a connection option.
type Opt func(*params)

// WithTLSCertPath sets the path of the PEM file holding the TLS trust root
// of the gateway peer.
func WithTLSCertPath(path string) Opt {
	return func(p *params) {
		p.tlsCertPath = path
	}
}

// WithServerNameOverride overrides the certificate hostname check, to
// support peer names that do not match DNS.
func WithServerNameOverride(name string) Opt {
	return func(p *params) {
		p.serverNameOverride = name
	}
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(timeout time.Duration) Opt {
	return func(p *params) {
		p.connectTimeout = timeout
	}
}

// WithKeepAliveParams sets the gRPC keepalive parameters.
func WithKeepAliveParams(kap keepalive.ClientParameters) Opt {
	return func(p *params) {
		p.keepAliveParams = kap
	}
}

// WithInsecure disables TLS. Intended for tests against in-process peers.
func WithInsecure() Opt {
	return func(p *params) {
		p.insecure = true
	}
}
