/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package protoutil

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/hyperledger/fabric-protos-go/common"
	"github.com/hyperledger/fabric-protos-go/msp"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeIdentity(t *testing.T) {
	creator, err := SerializeIdentity("Org1MSP", []byte("-----BEGIN CERTIFICATE-----"))
	require.NoError(t, err)

	sid := &msp.SerializedIdentity{}
	require.NoError(t, proto.Unmarshal(creator, sid))
	assert.Equal(t, "Org1MSP", sid.Mspid)
	assert.Equal(t, []byte("-----BEGIN CERTIFICATE-----"), sid.IdBytes)
}

func TestSerializeIdentityMissingInputs(t *testing.T) {
	_, err := SerializeIdentity("", []byte("cert"))
	assert.Error(t, err)

	_, err = SerializeIdentity("Org1MSP", nil)
	assert.Error(t, err)
}

func TestComputeTxID(t *testing.T) {
	nonce := []byte("nonce")
	creator := []byte("creator")

	h := sha256.New()
	h.Write(nonce)
	h.Write(creator)
	expected := hex.EncodeToString(h.Sum(nil))

	assert.Equal(t, expected, ComputeTxID(nonce, creator))
	// deterministic for identical inputs
	assert.Equal(t, ComputeTxID(nonce, creator), ComputeTxID(nonce, creator))
	assert.NotEqual(t, ComputeTxID([]byte("other"), creator), ComputeTxID(nonce, creator))
}

func TestCreateNonce(t *testing.T) {
	nonce, err := CreateNonce()
	require.NoError(t, err)
	assert.Len(t, nonce, NonceLength)

	other, err := CreateNonce()
	require.NoError(t, err)
	assert.NotEqual(t, nonce, other)
}

func TestCreateChaincodeProposal(t *testing.T) {
	nonce := []byte("nonce")
	creator := []byte("creator")
	txID := ComputeTxID(nonce, creator)

	proposal, err := CreateChaincodeProposal(txID, "mychannel", "basic", nonce, creator, nil, "CreateAsset", []string{"asset1", "Alice", "08:00", "17:00"})
	require.NoError(t, err)

	header := &common.Header{}
	require.NoError(t, proto.Unmarshal(proposal.Header, header))

	channelHdr := &common.ChannelHeader{}
	require.NoError(t, proto.Unmarshal(header.ChannelHeader, channelHdr))
	assert.Equal(t, "mychannel", channelHdr.ChannelId)
	assert.Equal(t, txID, channelHdr.TxId)
	assert.EqualValues(t, common.HeaderType_ENDORSER_TRANSACTION, channelHdr.Type)

	signatureHdr := &common.SignatureHeader{}
	require.NoError(t, proto.Unmarshal(header.SignatureHeader, signatureHdr))
	assert.Equal(t, creator, signatureHdr.Creator)
	assert.Equal(t, nonce, signatureHdr.Nonce)

	ccPropPayload := &pb.ChaincodeProposalPayload{}
	require.NoError(t, proto.Unmarshal(proposal.Payload, ccPropPayload))

	ccis := &pb.ChaincodeInvocationSpec{}
	require.NoError(t, proto.Unmarshal(ccPropPayload.Input, ccis))
	assert.Equal(t, "basic", ccis.ChaincodeSpec.ChaincodeId.Name)

	// function name first, then the ordered arguments
	args := ccis.ChaincodeSpec.Input.Args
	require.Len(t, args, 5)
	assert.Equal(t, "CreateAsset", string(args[0]))
	assert.Equal(t, "asset1", string(args[1]))
	assert.Equal(t, "17:00", string(args[4]))
}

func TestCreateChaincodeProposalMissingInputs(t *testing.T) {
	_, err := CreateChaincodeProposal("tx", "mychannel", "", nil, nil, nil, "fn", nil)
	assert.Error(t, err)

	_, err = CreateChaincodeProposal("tx", "mychannel", "basic", nil, nil, nil, "", nil)
	assert.Error(t, err)
}

func TestPreparedTransactionRoundTrip(t *testing.T) {
	envelope, err := CreatePreparedTransaction("mychannel", "tx1", []byte(`{"ID":"asset1"}`))
	require.NoError(t, err)

	result, err := GetResponsePayload(envelope)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ID":"asset1"}`), result)
}

func TestGetResponsePayloadBadEnvelope(t *testing.T) {
	_, err := GetResponsePayload(nil)
	assert.Error(t, err)

	_, err = GetResponsePayload(&common.Envelope{Payload: []byte("garbage")})
	assert.Error(t, err)
}
