// Package keys bundles the fixed throwaway credentials staged by the
// fixture and can mint fresh ones for suites that must not share them.
//
// The bundled material is test-only by definition: the private keys live
// in the repository and grant access to nothing but a fixture daemon
// bound to localhost.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	_ "embed"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

//go:embed material/host_rsa_key
var hostKey []byte

//go:embed material/host_rsa_key.pub
var hostPublicKey []byte

//go:embed material/authorized_keys
var authorizedKeys []byte

//go:embed material/client_rsa_key
var clientKey []byte

// Material holds one coherent credential set: a daemon host key, the
// authorized_keys line matching the client key, and the client private key
// handed to SSH clients.
type Material struct {
	HostKey        []byte
	AuthorizedKeys []byte
	ClientKey      []byte
}

// Bundled returns the fixed credential set shipped with the package.
func Bundled() Material {
	return Material{
		HostKey:        append([]byte(nil), hostKey...),
		AuthorizedKeys: append([]byte(nil), authorizedKeys...),
		ClientKey:      append([]byte(nil), clientKey...),
	}
}

// HostPublicKey returns the public half of the bundled host key, for
// clients that want to pin it instead of ignoring host verification.
func HostPublicKey() []byte {
	return append([]byte(nil), hostPublicKey...)
}

// Generate mints a fresh ed25519 credential set. The host and client keys
// are independent pairs; AuthorizedKeys holds the client public key in
// authorized_keys format.
func Generate() (Material, error) {
	host, err := generatePrivateKey("sshdtest-host")
	if err != nil {
		return Material{}, fmt.Errorf("generate host key: %w", err)
	}
	client, authorized, err := generateClientPair("sshdtest-client")
	if err != nil {
		return Material{}, fmt.Errorf("generate client key: %w", err)
	}
	return Material{HostKey: host, AuthorizedKeys: authorized, ClientKey: client}, nil
}

func generatePrivateKey(comment string) ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}

func generateClientPair(comment string) (private, authorized []byte, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, nil, err
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, nil, err
	}
	return pem.EncodeToMemory(block), ssh.MarshalAuthorizedKey(sshPub), nil
}
