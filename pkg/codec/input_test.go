package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
)

func TestInput(t *testing.T) {
	in := codec.Input{
		"id":       " d1 ",
		"quantity": 2.0,
		"ratio":    "12.5%",
		"paidOn":   "2024-03-01T10:15:00Z",
		"amount":   map[string]any{"value": "10.5", "currency": "USD"},
		"blank":    "  ",
	}

	assert.Equal(t, "d1", in.String("id"))
	assert.Equal(t, "USD", in.String("amount.currency"))
	assert.Equal(t, "", in.String("amount.missing"))

	f, ok := in.Float("amount.value")
	assert.True(t, ok)
	assert.Equal(t, 10.5, f)

	f, ok = in.Float("ratio")
	assert.True(t, ok)
	assert.InDelta(t, 0.125, f, 1e-12)

	_, ok = in.Float("blank")
	assert.False(t, ok)
	_, ok = in.Float("id")
	assert.False(t, ok)

	ts, ok := in.Time("paidOn")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), ts)

	assert.True(t, in.Has("quantity"))
	assert.False(t, in.Has("blank"))
	assert.False(t, in.Has("id.deeper"))
}

func TestInputWithout(t *testing.T) {
	in := codec.Input{
		"id":     "d1",
		"amount": map[string]any{"value": 1.0, "currency": "USD"},
		"custom": map[string]any{"note": "keep"},
	}

	assert.Equal(t, map[string]any{
		"custom": map[string]any{"note": "keep"},
	}, in.Without("id", "amount.value", "amount.currency"))

	assert.Nil(t, codec.Input{"id": "x"}.Without("id"))
}
