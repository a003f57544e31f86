package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

// ReferenceFunc produces a new booking reference.
type ReferenceFunc func() string

// NewReferenceGenerator returns references of the form
// <prefix><unix millis><6 random upper-case characters>, e.g.
// IPLBK1744291800123K7QF2M.
func NewReferenceGenerator(prefix string) ReferenceFunc {
	return func() string {
		suffix := strings.ToUpper(shortuuid.New()[:6])
		return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), suffix)
	}
}
