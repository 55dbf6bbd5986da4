package cpu

import (
	"testing"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/stretchr/testify/require"
)

func TestDeviceFingerprint(t *testing.T) {
	d := New(4)
	defer d.Close()

	fp := d.Fingerprint()
	require.Equal(t, "CPU", fp.Vendor)
	require.Equal(t, 1, fp.SubUnitCount)
}

func TestDeviceGetAttribute(t *testing.T) {
	d := New(6)
	defer d.Close()

	require.Equal(t, "cpu", d.GetAttribute(backend.DeviceImplementation).AsString())
	require.Equal(t, int32(6), d.GetAttribute(backend.DeviceMaxThreadsPerGroup).AsInt32())
	require.False(t, d.GetAttribute(backend.DeviceSupportsMappedBuffer).AsBool())
}

func TestDeviceUnsupportedOperations(t *testing.T) {
	d := New(2)
	defer d.Close()

	_, err := d.LoadLibraryFromText("kernel", "")
	require.Error(t, err)

	_, err = d.LoadLibraryFromData([]byte{1, 2, 3}, "")
	require.Error(t, err)

	_, err = d.AllocateMappedBuffer(64, backend.ReadWrite)
	require.Error(t, err)
}

func TestBufferRoundTrip(t *testing.T) {
	d := New(2)
	defer d.Close()

	buf, err := d.AllocateBuffer(8, backend.ReadWrite)
	require.NoError(t, err)

	stream := d.DefaultStream()
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, buf.CopyFromHost(stream, src))

	dst := make([]byte, 8)
	require.NoError(t, buf.CopyToHost(stream, dst))
	require.Equal(t, src, dst)
}

func TestSharedImageFromBufferAliasesStorage(t *testing.T) {
	d := New(2)
	defer d.Close()

	bufImpl, err := d.AllocateBuffer(16, backend.ReadWrite)
	require.NoError(t, err)
	stream := d.DefaultStream()
	require.NoError(t, bufImpl.CopyFromHost(stream, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}))

	descr := backend.ImageDescription{
		Size:     backend.Size3{Width: 4, Height: 1, Depth: 1},
		Channels: 4,
		Type:     backend.UInt8,
		Stride:   backend.Stride2{Row: 16},
	}
	imgImpl, err := d.SharedImageFromBuffer(descr, bufImpl)
	require.NoError(t, err)

	out := make([]byte, 16)
	require.NoError(t, imgImpl.CopyToHost(stream, out, descr))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, out)
}

func TestMarshalArgsNumericWidths(t *testing.T) {
	params := []attribute.Attribute{
		attribute.NewFloat32(2.5),
		attribute.NewInt32(-7),
		attribute.NewUInt32(42),
		attribute.NewBool(true),
		attribute.NewLocalMem(256),
	}
	argv := marshalArgs(params)
	require.Len(t, argv, 5)
	require.NotZero(t, argv[0])
	require.Equal(t, uintptr(1), argv[3])
	require.Equal(t, uintptr(256), argv[4])
}
