package mockagent

import (
	"crypto/rand"
	"math/big"
)

const (
	idLength = 24
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ID prefixes of server-assigned identifiers.
const (
	ConversationIDPrefix = "conv_"
	MessageIDPrefix      = "msg_"
	ResponseIDPrefix     = "resp_"
	CompletionIDPrefix   = "chatcmpl-"
)

// newID returns prefix followed by 24 random alphanumeric characters.
func newID(prefix string) string {
	return prefix + randomAlphanumeric(idLength)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
