package nffile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompress_GZIPRoundTrip(t *testing.T) {
	plain := []byte("a block's worth of flow record bytes")

	out, code, err := compress(CompressGZIP, plain)
	require.NoError(t, err)
	require.Equal(t, uint32(CompressGZIP), code)

	got, err := decompress(CompressGZIP, out)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestCompressDecompress_NoneIsIdentity(t *testing.T) {
	plain := []byte("raw bytes")
	out, code, err := compress(CompressNone, plain)
	require.NoError(t, err)
	require.Equal(t, uint32(CompressNone), code)

	got, err := decompress(CompressNone, out)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestDecompress_UnknownCode(t *testing.T) {
	_, err := decompress(0xFF00, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrCompression)
}
