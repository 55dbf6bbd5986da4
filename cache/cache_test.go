package cache

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeFingerprint() Fingerprint {
	return Fingerprint{Vendor: "X", Name: "Y", DriverVersion: "Z", SubUnitCount: 2}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	fp := fakeFingerprint()
	binaries := [][]byte{{0x01, 0x02}, {0x03}}

	c.Save(fp, binaries, []byte("code"), "-O2")

	got, ok := c.Load(fp, []byte("code"), "-O2")
	require.True(t, ok)
	assert.Equal(t, binaries, got)
}

func TestMissOnDifferentOptions(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	fp := fakeFingerprint()
	binaries := [][]byte{{0x01, 0x02}, {0x03}}

	c.Save(fp, binaries, []byte("code"), "-O2")

	_, ok := c.Load(fp, []byte("code"), "-O1")
	assert.False(t, ok, "different options should produce a different file key and miss")
}

func TestMissOnCorruptedPayload(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	fp := fakeFingerprint()
	binaries := [][]byte{{0x01, 0x02}, {0x03}}

	c.Save(fp, binaries, []byte("code"), "-O2")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	path := dir + "/" + entries[0].Name()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a byte inside the payload section (after the two 20-byte
	// digests, the 8-byte count, and the two 8-byte sizes).
	offset := 20 + 20 + 8 + 8 + 8
	data[offset] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, ok := c.Load(fp, []byte("code"), "-O2")
	assert.False(t, ok, "corrupted payload should be detected and treated as a miss")
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New("")
	assert.False(t, c.Enabled())
	c.Save(fakeFingerprint(), [][]byte{{1}}, []byte("code"), "")
	_, ok := c.Load(fakeFingerprint(), []byte("code"), "")
	assert.False(t, ok)
}

func TestPurgeBinariesKeepsFreshFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	fp := fakeFingerprint()
	c.Save(fp, [][]byte{{1}}, []byte("code"), "")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Only verifies that purge does not remove a freshly written file;
	// removal of an entry older than the threshold is not exercised here.
	c.PurgeBinaries(30)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
