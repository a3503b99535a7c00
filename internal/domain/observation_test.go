package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sel1961A = Selection{Year: 1961, Station: StationA}
	sel1961B = Selection{Year: 1961, Station: StationB}
)

func TestParseCanonicalLine(t *testing.T) {
	t.Run("station A columns", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,9.0,4.5,2.5,-0.0", sel1961A)

		require.NoError(t, err)
		assert.Equal(t, 4, obs.Month)
		assert.Equal(t, 9.0, obs.RainMM)
		assert.Equal(t, Temperature{Celsius: 4.5, Valid: true}, obs.Temp)
	})

	t.Run("station B columns", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,9.0,4.5,2.5,-1.5", sel1961B)

		require.NoError(t, err)
		assert.Equal(t, 2.5, obs.RainMM)
		assert.Equal(t, -1.5, obs.Temp.Celsius)
	})

	t.Run("empty rain is zero", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,,4.5,,", sel1961A)

		require.NoError(t, err)
		assert.Zero(t, obs.RainMM)
		assert.True(t, obs.Temp.Valid)
	})

	t.Run("empty temperature is missing", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,1.0,,,", sel1961A)

		require.NoError(t, err)
		assert.False(t, obs.Temp.Valid)
	})

	t.Run("NaN temperature is missing", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,1.0,nan,,", sel1961A)

		require.NoError(t, err)
		assert.False(t, obs.Temp.Valid)
	})

	t.Run("zero temperature is present", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,1.0,0.0,,", sel1961A)

		require.NoError(t, err)
		assert.Equal(t, Temperature{Celsius: 0, Valid: true}, obs.Temp)
	})

	t.Run("surrounding whitespace and CR are tolerated", func(t *testing.T) {
		obs, err := ParseCanonicalLine("1961-04-05,9.0,4.5,2.5, -1.5\r", sel1961B)

		require.NoError(t, err)
		assert.Equal(t, -1.5, obs.Temp.Celsius)
	})

	t.Run("unparseable rain is fatal", func(t *testing.T) {
		_, err := ParseCanonicalLine("1961-04-05,abc,4.5,,", sel1961A)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "rain_A_mm", fe.Column)
		assert.Equal(t, "abc", fe.Value)
		assert.ErrorIs(t, err, strconv.ErrSyntax)
		assert.False(t, IsSkip(err))
	})

	t.Run("blank rain is fatal", func(t *testing.T) {
		_, err := ParseCanonicalLine("1961-04-05, ,4.5,,", sel1961A)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "rain_A_mm", fe.Column)
	})

	t.Run("unparseable temperature is fatal", func(t *testing.T) {
		_, err := ParseCanonicalLine("1961-04-05,1.0,2.0,0.0,warm", sel1961B)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "temp_B_C", fe.Column)
		assert.Contains(t, err.Error(), `"warm"`)
	})

	t.Run("other station's bad values are ignored", func(t *testing.T) {
		_, err := ParseCanonicalLine("1961-04-05,1.0,2.0,bad,bad", sel1961A)
		require.NoError(t, err)
	})

	skips := []struct {
		name string
		line string
		want error
	}{
		{"too few fields", "1961-04-05,9.0,4.5,2.5", ErrTooFewFields},
		{"empty line", "", ErrTooFewFields},
		{"short date", "1961-4-5,9.0,4.5,2.5,1.0", ErrShortDate},
		{"non-numeric year", "abcd-04-05,9.0,4.5,2.5,1.0", ErrBadYear},
		{"other year", "1962-04-05,9.0,4.5,2.5,1.0", ErrOtherYear},
		{"month zero", "1961-00-05,9.0,4.5,2.5,1.0", ErrBadMonth},
		{"month thirteen", "1961-13-05,9.0,4.5,2.5,1.0", ErrBadMonth},
		{"non-numeric month", "1961-xx-05,9.0,4.5,2.5,1.0", ErrBadMonth},
		{"other year with bad rain", "1962-04-05,abc,4.5,,", ErrOtherYear},
	}

	for _, tt := range skips {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCanonicalLine(tt.line, sel1961A)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsSkip(err))
		})
	}
}

func TestParseTemperature_NonFiniteIsMissing(t *testing.T) {
	for _, in := range []string{"+Inf", "-inf", "NaN", " inf\r"} {
		temp, err := parseTemperature(in)
		require.NoError(t, err, in)
		assert.False(t, temp.Valid, in)
	}
}

func TestParseCanonicalLine_NonFiniteRainIsFatal(t *testing.T) {
	for _, rain := range []string{"inf", "-Inf", "nan"} {
		_, err := ParseCanonicalLine("1961-04-05,"+rain+",1.0,,", sel1961A)

		var fe *FieldError
		require.ErrorAs(t, err, &fe, rain)
		assert.Equal(t, "rain_A_mm", fe.Column)
		assert.ErrorIs(t, err, ErrNotFinite)
		assert.False(t, IsSkip(err))
	}
}
