// Package keys bootstraps a node's cryptographic identity: one-shot
// key generation, extraction, transport encoding, and validator
// address derivation.
package keys

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BootstrapError means a step of key generation or extraction failed.
// It is always fatal: partial key material must never be treated as a
// usable identity.
type BootstrapError struct {
	Step string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap error at %s: %v", e.Step, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// keyValue is the nested pub_key/priv_key shape inside a key document.
type keyValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// privValidatorKey is the subset of the private validator key document
// this tool reads. Everything else in the document is opaque.
type privValidatorKey struct {
	Address string   `json:"address"`
	PubKey  keyValue `json:"pub_key"`
}

// ValidatorAddress derives the public validator address from a private
// validator key document: the lowercase 0x-prefixed hex of its address
// field. Never stored, always recomputed from the document.
func ValidatorAddress(doc []byte) (string, error) {
	var key privValidatorKey
	if err := json.Unmarshal(doc, &key); err != nil {
		return "", &BootstrapError{Step: "parse validator key", Err: err}
	}

	addr := strings.TrimPrefix(key.Address, "0x")
	if !common.IsHexAddress(addr) {
		return "", &BootstrapError{
			Step: "derive validator address",
			Err:  fmt.Errorf("address field %q is not a 20-byte hex value", key.Address),
		}
	}
	return "0x" + strings.ToLower(addr), nil
}

// ValidatorPubKey extracts the base64 public key value from a private
// validator key document.
func ValidatorPubKey(doc []byte) (string, error) {
	var key privValidatorKey
	if err := json.Unmarshal(doc, &key); err != nil {
		return "", &BootstrapError{Step: "parse validator key", Err: err}
	}
	if key.PubKey.Value == "" {
		return "", &BootstrapError{
			Step: "read validator pub key",
			Err:  fmt.Errorf("document has no pub_key.value"),
		}
	}
	if _, err := base64.StdEncoding.DecodeString(key.PubKey.Value); err != nil {
		return "", &BootstrapError{
			Step: "read validator pub key",
			Err:  fmt.Errorf("pub_key.value is not base64: %w", err),
		}
	}
	return key.PubKey.Value, nil
}

// EncodeTransport encodes a key document for injection as an opaque
// environment value. Single line, no trailing newline; the consuming
// node's entrypoint decodes it back to a 600-permission file.
func EncodeTransport(doc []byte) string {
	return base64.StdEncoding.EncodeToString(doc)
}

// readRestricted reads a key file and tightens its permissions to
// owner read/write only.
func readRestricted(path string) ([]byte, error) {
	if err := os.Chmod(path, 0o600); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
