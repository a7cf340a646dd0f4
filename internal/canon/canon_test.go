package canon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mel2stf.dev/mel2stf/internal/canon"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := canon.NewWriter(0)
	w.WriteUint16(0xBEEF)
	w.WriteUint64(123456789)
	w.WriteFixed([]byte{1, 2, 3, 4})
	w.WriteBytes([]byte("hello"))
	w.WriteTag(7)

	r := canon.NewReader(w.Bytes())

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), u16)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(123456789), u64)

	fixed, err := r.ReadFixed(4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, fixed)

	bs, err := r.ReadBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), bs)

	tag, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, byte(7), tag)

	require.Equal(t, 0, r.Remaining())
}

func TestReaderShortBufferErrors(t *testing.T) {
	r := canon.NewReader([]byte{0x01})
	_, err := r.ReadUint64()
	require.Error(t, err)
}
