package keys

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validatorDoc = `{
  "address": "8FA9161F0C134E2EF5EC849A4BA4A9AE54A4F1E7",
  "pub_key": {
    "type": "tendermint/PubKeyEd25519",
    "value": "YWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWE="
  },
  "priv_key": {
    "type": "tendermint/PrivKeyEd25519",
    "value": "YmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmI="
  }
}`

var addressRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func TestValidatorAddress(t *testing.T) {
	addr, err := ValidatorAddress([]byte(validatorDoc))
	require.NoError(t, err)

	assert.Regexp(t, addressRe, addr)
	assert.Equal(t, "0x8fa9161f0c134e2ef5ec849a4ba4a9ae54a4f1e7", addr)
}

func TestValidatorAddressAcceptsPrefixedInput(t *testing.T) {
	doc := `{"address":"0x8FA9161F0C134E2EF5EC849A4BA4A9AE54A4F1E7","pub_key":{"value":"YQ=="}}`
	addr, err := ValidatorAddress([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "0x8fa9161f0c134e2ef5ec849a4ba4a9ae54a4f1e7", addr)
}

func TestValidatorAddressRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{{`},
		{name: "missing address", doc: `{"pub_key":{"value":"YQ=="}}`},
		{name: "short address", doc: `{"address":"8FA9"}`},
		{name: "non-hex address", doc: `{"address":"ZZZZ161F0C134E2EF5EC849A4BA4A9AE54A4F1E7"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidatorAddress([]byte(tt.doc))
			var be *BootstrapError
			require.ErrorAs(t, err, &be)
		})
	}
}

func TestValidatorPubKey(t *testing.T) {
	pub, err := ValidatorPubKey([]byte(validatorDoc))
	require.NoError(t, err)
	assert.Equal(t, "YWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWE=", pub)

	_, err = ValidatorPubKey([]byte(`{"address":"x","pub_key":{"value":"%%not-base64%%"}}`))
	assert.Error(t, err)

	_, err = ValidatorPubKey([]byte(`{"address":"x"}`))
	assert.Error(t, err)
}

func TestEncodeTransportIsSingleLine(t *testing.T) {
	enc := EncodeTransport([]byte(validatorDoc))

	assert.NotContains(t, enc, "\n")

	decoded, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Equal(t, validatorDoc, string(decoded))
}
