package randomstringgenerator

import (
	"accounts/internal/core/domain/user"
	"crypto/rand"
)

const (
	alphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength = 32
	// Bytes at or above this value are rejected so every char of the
	// alphabet is equally likely.
	maxByte = 256 - 256%len(alphabet)
)

type Generator struct {
	length int
}

func NewGenerator() *Generator {
	return &Generator{length: tokenLength}
}

func (g *Generator) GenerateToken() user.TokenValue {
	return user.TokenValue(g.generate())
}

func (g *Generator) generate() string {
	result := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)
	for len(result) < g.length {
		if _, err := rand.Read(buf); err != nil {
			panic("could not read random bytes: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			result = append(result, alphabet[int(b)%len(alphabet)])
			if len(result) == g.length {
				break
			}
		}
	}
	return string(result)
}
