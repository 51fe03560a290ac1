package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hogpd/device"
)

func TestUUID16String(t *testing.T) {
	assert.Equal(t, "00001812-0000-1000-8000-00805f9b34fb", UUIDHIDService.String())
	assert.Equal(t, "00002a4d-0000-1000-8000-00805f9b34fb", UUIDReport.String())
}

func TestBuildProfileTreeShape(t *testing.T) {
	p := BuildProfile("test-device")

	require.Len(t, p.Services, 3)
	hid, bas, dis := p.Services[0], p.Services[1], p.Services[2]

	assert.Equal(t, UUIDHIDService, hid.UUID)
	assert.True(t, hid.Primary)
	require.Len(t, hid.Characteristics, 6)

	assert.Equal(t, UUIDBatteryService, bas.UUID)
	require.Len(t, bas.Characteristics, 1)

	assert.Equal(t, UUIDDeviceInfo, dis.UUID)
	require.Len(t, dis.Characteristics, 2)
}

func TestBuildProfileHIDCharacteristics(t *testing.T) {
	p := BuildProfile("test-device")
	hid := p.Services[0]

	info := hid.Characteristic(UUIDHIDInformation)
	require.NotNil(t, info)
	assert.Equal(t, []byte{0x11, 0x01, 0x00, 0x00}, info.Value)

	mode := hid.Characteristic(UUIDProtocolMode)
	require.NotNil(t, mode)
	assert.Equal(t, []byte{0x01}, mode.Value, "report protocol mode")

	reportMap := hid.Characteristic(UUIDReportMap)
	require.NotNil(t, reportMap)
	assert.Equal(t, device.ReportMap(), reportMap.Value)

	cp := hid.Characteristic(UUIDHIDControlPoint)
	require.NotNil(t, cp)
	assert.Contains(t, cp.Flags, FlagWriteWithoutResponse)
}

func TestBuildProfileRuntimeHandles(t *testing.T) {
	p := BuildProfile("test-device")

	require.NotNil(t, p.MouseReport)
	require.NotNil(t, p.KeyboardReport)
	assert.Same(t, p.Services[0].Characteristics[4], p.MouseReport)
	assert.Same(t, p.Services[0].Characteristics[5], p.KeyboardReport)

	for _, report := range []*Characteristic{p.MouseReport, p.KeyboardReport} {
		assert.Equal(t, UUIDReport, report.UUID)
		assert.Contains(t, report.Flags, FlagEncryptNotify)
		require.Len(t, report.Descriptors, 1)
		assert.Equal(t, UUIDReportReference, report.Descriptors[0].UUID)
	}
	assert.Equal(t, []byte{device.ReportIDMouse, reportRefInput}, p.MouseReport.Descriptors[0].Value)
	assert.Equal(t, []byte{device.ReportIDKeyboard, reportRefInput}, p.KeyboardReport.Descriptors[0].Value)

	require.NotNil(t, p.BatteryLevel)
	assert.Same(t, p.Services[1].Characteristic(UUIDBatteryLevel), p.BatteryLevel)
}

func TestBuildProfileDeviceInfoStrings(t *testing.T) {
	p := BuildProfile("hogpd-test")
	dis := p.Services[2]

	mfg := dis.Characteristic(UUIDManufacturer)
	model := dis.Characteristic(UUIDModelNumber)
	require.NotNil(t, mfg)
	require.NotNil(t, model)
	assert.Equal(t, []byte("hogpd-test"), mfg.Value)
	assert.Equal(t, []byte("hogpd-test"), model.Value)
}

func TestAdvertisedServices(t *testing.T) {
	assert.Equal(t, []UUID16{UUIDHIDService, UUIDBatteryService, UUIDDeviceInfo}, AdvertisedServices())
}

func TestCharacteristicLookupMiss(t *testing.T) {
	p := BuildProfile("x")
	assert.Nil(t, p.Services[0].Characteristic(UUIDBatteryLevel))
}
