package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bench   press", "Bench Press"},
		{"DB row", "DB Row"},
		{"BENCH", "BENCH"},
		{"  bench press  ", "Bench Press"},
		{"bench-press!!", "Benchpress"},
		{"OHPress", "OHPress"},
		{"OHpress", "OHpress"},
		{"dB curl", "Db Curl"},
		{"squat 5x5", "Squat 5x5"},
		{"überzug", "Berzug"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NormalizeName(tt.input))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	f := gofakeit.New(2024)
	inputs := []string{"bench   press", "DB row", "OHpress", "a-B-c", "  x  Y z "}
	for i := 0; i < 200; i++ {
		inputs = append(inputs, f.Sentence(f.IntRange(1, 5)), f.LetterN(uint(f.IntRange(1, 12))), f.Regex(`[A-Za-z !-]{1,15}`))
	}

	for _, in := range inputs {
		once := domain.NormalizeName(in)
		assert.Equal(t, once, domain.NormalizeName(once), "input %q", in)
	}
}

func TestSanitizeDigits(t *testing.T) {
	assert.Equal(t, "1355", domain.SanitizeDigits("135.5"))
	assert.Equal(t, "10", domain.SanitizeDigits("-10"))
	assert.Equal(t, "225", domain.SanitizeDigits("225 lbs"))
	assert.Equal(t, "", domain.SanitizeDigits("abc"))
}
