package stego

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func container(lines int, ending string) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("line ")
		b.WriteByte(byte('a' + i%26))
		b.WriteString(ending)
	}
	return b.String()
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []Line
	}{
		{"", nil},
		{"a", []Line{{Body: "a"}}},
		{"a\n", []Line{{Body: "a", Ending: "\n"}}},
		{"a\r\nb", []Line{{Body: "a", Ending: "\r\n"}, {Body: "b"}}},
		{"\n\n", []Line{{Ending: "\n"}, {Ending: "\n"}}},
	}
	for _, tc := range cases {
		got := SplitLines(tc.in)
		assert.Equalf(t, tc.want, got, "SplitLines(%q)", tc.in)
		assert.Equal(t, tc.in, JoinLines(got))
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ending := range []string{"\n", "\r\n"} {
		payload := []byte("Привет, мир!")
		cont := container(8*(4+len(payload))+5, ending)

		hidden, err := Embed(cont, payload)
		require.NoError(t, err)

		got, err := Extract(hidden)
		require.NoError(t, err)
		assert.Equal(t, payload, got)

		// Only trailing spaces differ from the original.
		assert.Equal(t, len(SplitLines(cont)), len(SplitLines(hidden)))
		for i, l := range SplitLines(hidden) {
			orig := SplitLines(cont)[i]
			assert.Equal(t, orig.Ending, l.Ending)
			assert.Equal(t, orig.Body, strings.TrimRight(l.Body, " "))
		}
	}
}

func TestEmbed_FrameLayout(t *testing.T) {
	hidden, err := Embed(container(40, "\n"), []byte{0x81})
	require.NoError(t, err)

	lines := SplitLines(hidden)
	var bits strings.Builder
	for _, l := range lines {
		if strings.HasSuffix(l.Body, " ") {
			bits.WriteByte('1')
		} else {
			bits.WriteByte('0')
		}
	}
	// 32-bit length 1, then 0x81, then untouched lines.
	want := strings.Repeat("0", 31) + "1" + "10000001"
	assert.Equal(t, want, bits.String())
}

func TestEmbed_ClearsExistingTrailingSpaces(t *testing.T) {
	cont := strings.Repeat("text   \n", 41)
	hidden, err := Embed(cont, []byte{0x00})
	require.NoError(t, err)

	got, err := Extract(hidden)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, got)

	// Lines past the frame keep their spaces.
	assert.Equal(t, "text   ", SplitLines(hidden)[40].Body)
	assert.Equal(t, "text", SplitLines(hidden)[39].Body)
}

func TestEmbed_Errors(t *testing.T) {
	_, err := Embed(container(100, "\n"), nil)
	assert.True(t, errors.Is(err, ErrEmptyPayload))

	_, err = Embed(container(39, "\n"), []byte{1})
	assert.True(t, errors.Is(err, ErrCapacity))
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(container(31, "\n"))
	assert.True(t, errors.Is(err, ErrTruncated))

	// Header announces 2 bytes but only one byte of lines follows.
	lines := SplitLines(container(40, "\n"))
	lines[30].Body += " " // length = 2
	_, err = Extract(JoinLines(lines))
	assert.True(t, errors.Is(err, ErrTruncated))
}

func TestExtract_ZeroLength(t *testing.T) {
	got, err := Extract(container(32, "\n"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 0, Capacity(""))
	assert.Equal(t, 0, Capacity(container(39, "\n")))
	assert.Equal(t, 1, Capacity(container(40, "\n")))
	assert.Equal(t, 6, Capacity(container(87, "\n")))
}

func TestEncodeDecodeText(t *testing.T) {
	b, err := EncodeText(CP1251, "Привет")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}, b)

	s, err := DecodeText("windows-1251", b)
	require.NoError(t, err)
	assert.Equal(t, "Привет", s)

	// Characters outside the code page are replaced, not dropped silently.
	b, err = EncodeText(CP1251, "日")
	require.NoError(t, err)
	assert.Len(t, b, 1)

	b, err = EncodeText(UTF8, "日")
	require.NoError(t, err)
	assert.Equal(t, []byte("日"), b)

	s, err = DecodeText("UTF8", []byte{'o', 'k', 0xFF})
	require.NoError(t, err)
	assert.Equal(t, "ok�", s)

	_, err = EncodeText("koi8", "x")
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
	_, err = DecodeText("koi8", nil)
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}
