package device_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edurenesto/aoldaq-go/device"
)

func TestRandomReadIntoFillsBuffer(t *testing.T) {
	r := device.NewRandom()

	buf := make([]uint32, 32)
	n, err := r.ReadInto(0, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
}

func TestRandomPollUnsupported(t *testing.T) {
	r := device.NewRandom()
	_, ok := r.Poll(0)
	require.False(t, ok)
}

func TestRandomImplementsDevice(t *testing.T) {
	var _ device.Device = device.NewRandom()
}
