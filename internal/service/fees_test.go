package service

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	p := DefaultFeePolicy()

	a, err := p.Quote(500, 2)
	require.NoError(t, err)
	assert.Equal(t, Amounts{Base: 1000, GST: 180, ServiceFee: 20, Total: 1200}, a)

	a, err = p.Quote(333, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 60, a.GST)
	assert.EqualValues(t, 7, a.ServiceFee)
	assert.Equal(t, a.Base+a.GST+a.ServiceFee, a.Total)

	free, err := FeePolicy{}.Quote(750, 4)
	require.NoError(t, err)
	assert.Equal(t, Amounts{Base: 3000, Total: 3000}, free)
}

func TestQuoteRejectsOverflow(t *testing.T) {
	p := DefaultFeePolicy()

	_, err := p.Quote(1<<60, 8)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// base fits but base*1.2 does not
	_, err = p.Quote(math.MaxInt64/10, 9)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Quote(100, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	big, err := p.Quote(MaxTicketPrice, 1000)
	require.NoError(t, err)
	assert.Equal(t, big.Base+big.GST+big.ServiceFee, big.Total)
	assert.Positive(t, big.Total)
}

func TestReferenceGenerator(t *testing.T) {
	gen := NewReferenceGenerator("IPLBK")
	pattern := regexp.MustCompile(`^IPLBK\d{13}[2-9A-Z]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		ref := gen()
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
