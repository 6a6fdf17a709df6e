package checksum

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint16
	}{
		{"empty", "", 0},
		{"single byte padded", "A", 0x4100},
		{"one word", "AB", 0x4142},
		{"odd length", "ABC", 0x0242},
		{"cyrillic utf-8", "Привет1Qq", 16499},
		{"latin only", "hello", 27401},
		{"mixed", "Пароль1Zz", 19324},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := String(tc.in); got != tc.want {
				t.Errorf("String(%q) = %d; want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSum_RepeatedWordCancels(t *testing.T) {
	assert.Equal(t, uint16(0), Sum([]byte("ABAB")))
	assert.Equal(t, uint16(0), Sum([]byte{0, 0, 0}))
}

func TestSum_CollisionsAllowed(t *testing.T) {
	// Word order does not matter to an XOR fold.
	assert.Equal(t, String("ABCD"), String("CDAB"))
}

func TestDigest_SplitWrites(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog, Съешь же ещё этих мягких булок")
	want := Sum(data)

	for split := 0; split <= len(data); split++ {
		for step := 1; step <= 3; step++ {
			d := New()
			_, _ = d.Write(data[:split])
			rest := data[split:]
			for len(rest) > 0 {
				k := step
				if k > len(rest) {
					k = len(rest)
				}
				_, _ = d.Write(rest[:k])
				rest = rest[k:]
			}
			require.Equalf(t, want, d.Sum16(), "split=%d step=%d", split, step)
		}
	}
}

func TestDigest_HashInterface(t *testing.T) {
	d := New()
	n, err := d.Write([]byte("ABC"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0x02, 0x42}, d.Sum(nil))
	assert.Equal(t, Size, d.Size())
	assert.Equal(t, Size, d.BlockSize())

	// Sum does not consume the pending byte.
	_, _ = d.Write([]byte("D"))
	assert.Equal(t, String("ABCD"), d.Sum16())

	d.Reset()
	assert.Equal(t, uint16(0), d.Sum16())
}

func TestSumReader(t *testing.T) {
	got, err := SumReader(strings.NewReader("Привет1Qq"))
	require.NoError(t, err)
	assert.Equal(t, uint16(16499), got)

	got, err = SumReader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, uint16(0), got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestSumReader_Error(t *testing.T) {
	_, err := SumReader(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
