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
)

// Commit allows a caller that submitted a transaction asynchronously to
// await its durability separately from its submission.
type Commit interface {
	// TransactionID returns the ID of the submitted transaction.
	TransactionID() string
	// Status blocks until the transaction's commit outcome is known or the
	// commit-status deadline elapses. An unsuccessful validation code is
	// reported in the returned CommitStatus, not as an error; errors are
	// reserved for failures to learn the outcome at all.
	Status() (*CommitStatus, error)
}

// CommitStatus is the terminal outcome of a submitted transaction.
type CommitStatus struct {
	TransactionID string
	Successful    bool
	Code          pb.TxValidationCode
	BlockNumber   uint64
}

type commit struct {
	gateway       *Gateway
	channelID     string
	transactionID string
}

func (c *commit) TransactionID() string {
	return c.transactionID
}

func (c *commit) Status() (*CommitStatus, error) {
	gw := c.gateway

	request, err := proto.Marshal(&gatewaypb.CommitStatusRequest{
		ChannelId:     c.channelID,
		TransactionId: c.transactionID,
		Identity:      gw.creator,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal commit status request")
	}

	signature, err := gw.sign(request)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to sign commit status request")
	}

	ctx, cancel := callContext(gw.deadlines.commitStatus)
	defer cancel()

	response, err := gw.client.CommitStatus(ctx, &gatewaypb.SignedCommitStatusRequest{
		Request:   request,
		Signature: signature,
	})
	if err != nil {
		return nil, errors.WithMessagef(translateRPCError(err), "failed to obtain commit status of transaction %s", c.transactionID)
	}

	return &CommitStatus{
		TransactionID: c.transactionID,
		Successful:    response.GetResult() == pb.TxValidationCode_VALID,
		Code:          response.GetResult(),
		BlockNumber:   response.GetBlockNumber(),
	}, nil
}
