package relay

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/nacl/sign"
)

// Event is the signed payload published to the relay network. Every
// event is signed with a freshly generated, single-use key pair; the
// customer never holds a persistent identity.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// NewEvent serializes payload into a signed event. The private key is
// discarded before returning.
func NewEvent(kind string, payload interface{}) (*Event, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	pub, priv, err := sign.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate event key pair: %w", err)
	}

	ev := &Event{
		PubKey:    hex.EncodeToString(pub[:]),
		CreatedAt: time.Now().Unix(),
		Kind:      kind,
		Content:   string(content),
	}

	digest := ev.digest()
	ev.ID = hex.EncodeToString(digest)

	signed := sign.Sign(nil, digest, priv)
	ev.Sig = hex.EncodeToString(signed[:sign.Overhead])

	return ev, nil
}

// Verify checks the event signature against its own public key.
func (e *Event) Verify() bool {
	pubBytes, err := hex.DecodeString(e.PubKey)
	if err != nil || len(pubBytes) != 32 {
		return false
	}
	sigBytes, err := hex.DecodeString(e.Sig)
	if err != nil || len(sigBytes) != sign.Overhead {
		return false
	}

	var pub [32]byte
	copy(pub[:], pubBytes)

	signed := append(sigBytes, e.digest()...)
	_, ok := sign.Open(nil, signed, &pub)
	return ok
}

func (e *Event) digest() []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s:%s", e.PubKey, e.CreatedAt, e.Kind, e.Content)))
	return sum[:]
}
