package nffile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	var want Header
	want.SetCreator(Creator)
	want.SetIdentity("router1.example.net")
	want.Flags = CompressGZIP
	want.NumBlocks = 7

	buf := make([]byte, HeaderLen)
	PutHeader(buf, want)

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(CompressGZIP), got.Compression())
	require.Equal(t, "router1.example.net", got.Identity())
	require.Equal(t, Creator, got.CreatorTag())
	require.Equal(t, want.NumBlocks, got.NumBlocks)
	require.False(t, got.Encrypted())
}

func TestHeader_BadMagic(t *testing.T) {
	buf := make([]byte, HeaderLen)
	_, err := ParseHeader(buf) // all-zero buffer: wrong magic
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestStatRecord_RoundTrip(t *testing.T) {
	want := StatRecord{
		NumFlows:   100,
		NumBytes:   200000,
		NumPackets: 500,
		FirstSeen:  1000,
		LastSeen:   2000,
		MSecFirst:  1,
		MSecLast:   2,
	}
	buf := make([]byte, StatRecordLen)
	PutStatRecord(buf, want)

	got, err := ParseStatRecord(buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
