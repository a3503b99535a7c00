package csvfile

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) []string {
	t.Helper()
	sc := NewLineScanner(strings.NewReader(input))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestLineScanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty input", "", nil},
		{"single line no newline", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"carriage return kept", "a\r\nb\r\n", []string{"a\r", "b\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanAll(t, tt.input))
		})
	}
}

func TestLineScanner_TooLong(t *testing.T) {
	long := strings.Repeat("x", 40)

	tests := []struct {
		name        string
		input       string
		wantLines   []string
		wantTooLong []bool
	}{
		{"middle line", "a\n" + long + "\nb\n", []string{"a", "", "b"}, []bool{false, true, false}},
		{"last line without newline", "a\n" + long, []string{"a", ""}, []bool{false, true}},
		{"exactly at limit", strings.Repeat("y", 15) + "\nb", []string{strings.Repeat("y", 15), "b"}, []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newLineScanner(strings.NewReader(tt.input), 16)
			var lines []string
			var tooLong []bool
			for sc.Scan() {
				lines = append(lines, sc.Text())
				tooLong = append(tooLong, sc.TooLong())
			}
			require.NoError(t, sc.Err())
			assert.Equal(t, tt.wantLines, lines)
			assert.Equal(t, tt.wantTooLong, tooLong)
		})
	}
}

func TestLineScanner_ReadError(t *testing.T) {
	sc := NewLineScanner(io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(errors.New("disk gone"))))

	require.True(t, sc.Scan())
	assert.Equal(t, "a", sc.Text())
	assert.False(t, sc.Scan())
	assert.EqualError(t, sc.Err(), "disk gone")
}

func TestCanonicalWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCanonicalWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Write(domain.CanonicalRecord{Date: "1961-01-26", RainA: "0.0", TempA: "-7.2", RainB: "0.0", TempB: "-10.3"}))
	require.NoError(t, w.Write(domain.CanonicalRecord{Date: "1961-01-27", RainA: "\"1\"", TempA: " x"}))
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"date,rain_A_mm,temp_A_C,rain_B_mm,temp_B_C\n"+
			"1961-01-26,0.0,-7.2,0.0,-10.3\n"+
			"1961-01-27,\"1\", x,,\n",
		buf.String())
}

func TestWriteSummary(t *testing.T) {
	var mb domain.MonthlyBuckets
	mb.Add(domain.Observation{Month: 1, RainMM: 5, Temp: domain.Temperature{Celsius: 1, Valid: true}})
	mb.Add(domain.Observation{Month: 1, RainMM: 0, Temp: domain.Temperature{Celsius: -7.2, Valid: true}})
	s := domain.NewSummary(domain.Selection{Year: 1961, Station: domain.StationA}, &mb)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, domain.SummaryHeader, lines[0])
	assert.Equal(t, "1,5,1,-7.2,1", lines[1])
	assert.Equal(t, "2,0,0,0,0", lines[2])
	assert.Equal(t, "12,0,0,0,0", lines[12])
}
