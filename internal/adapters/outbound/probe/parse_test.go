package probe

import (
	"testing"

	"github.com/abdidvp/hwaudit/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"MemTotal":                   "mem_total",
		"FullChargedCapacity":        "full_charged_capacity",
		"DeviceID":                   "device_id",
		"AdapterRAM":                 "adapter_ram",
		"model name":                 "model_name",
		"cpu MHz":                    "cpu_mhz",
		"hw.memsize":                 "hw_memsize",
		"Full Charge Capacity (mAh)": "full_charge_capacity_mah",
		"Device / Media Name":        "device_media_name",
		"vendor_id":                  "vendor_id",
		"  Cycle Count ":             "cycle_count",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeKey(in), in)
	}
}

func TestParseRecords(t *testing.T) {
	text := "Name         : Intel(R) Core(TM) i5\r\nNumberOfCores : 4\n\nmac=aa:bb:cc:dd:ee:ff\nspeed=1000\n" +
		"**********\nDevice Identifier: disk0\n===========\nno separator here\n"

	records := parseRecords(text)

	require.Len(t, records, 3)
	assert.Equal(t, "Intel(R) Core(TM) i5", records[0].str("name"))
	assert.Equal(t, 4, *records[0].int("number_of_cores"))
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", records[1].str("mac"))
	assert.Equal(t, "disk0", records[2].str("device_identifier"))
}

func TestParseRecords_RepeatedKeyStartsRecord(t *testing.T) {
	records := parseRecords("name=a\nstatus=OK\nname=b\nstatus=Error\n")

	require.Len(t, records, 2)
	assert.Equal(t, "b", records[1].str("name"))
}

func TestParseSize(t *testing.T) {
	assert.Equal(t, uint64(500277790720), *parseSize("500.3 GB (500277790720 Bytes) (exactly 977105060 512-Byte-Units)"))
	assert.Equal(t, uint64(16000000000), *parseSize("16 GB"))
	assert.Equal(t, uint64(1024), *parseSize("1024"))
	assert.Nil(t, parseSize(""))
	assert.Nil(t, parseSize("unknown"))
	assert.Equal(t, uint64(2048), *parseKiB("2 kB"))
}

func TestParseBoolAndFloat(t *testing.T) {
	assert.True(t, *parseBool("Yes"))
	assert.False(t, *parseBool("0"))
	assert.Nil(t, parseBool("maybe"))
	assert.Equal(t, 87.0, *parseFloat("87%"))
	assert.Equal(t, 61.2, *parseFloat("61.2°C"))
	assert.Equal(t, 1234.0, *parseFloat("1,234 mAh"))
	assert.Nil(t, parseFloat("n/a"))
}

func TestParseSensors(t *testing.T) {
	text := "sensor=acpitz\ntemp=48000\n\nsensor=x86_pkg_temp\ntemp=52000\n\nsensor=nvme\ntemp=38850\n\nsensor=amdgpu\ntemp=61000\n\nsensor=broken\ntemp=-273000\n"

	sensors := parseSensors(text)

	require.Len(t, sensors, 4)
	assert.Equal(t, 52.0, *cpuTemperature(sensors))
	assert.Equal(t, 61.0, *gpuTemperature(sensors))
}

func TestParseSensors_FallsBackToThermalZone(t *testing.T) {
	sensors := parseSensors("sensor=ACPI\\ThermalZone\\TZ00_0\ntemp=55.1\n\nsensor=nvme\ntemp=40\n")

	assert.Equal(t, 55.1, *cpuTemperature(sensors))
}

func TestParseSensors_BareValue(t *testing.T) {
	sensors := parseSensors("61.2°C\n")

	require.Len(t, sensors, 1)
	assert.Equal(t, 61.2, *cpuTemperature(sensors))
	assert.Empty(t, parseSensors("0.0°C\n"))
}

func TestParseUsage(t *testing.T) {
	assert.Equal(t, 7.0, *parseUsage("usage=7\n"))
	assert.Equal(t, 12.5, *parseUsage("12.5\n"))
	assert.Nil(t, parseUsage("usage=\n"))
	assert.Nil(t, parseUsage("usage=140\n"))
}

func TestParseMemory_Darwin(t *testing.T) {
	text := "hw.memsize: 17179869184\n" +
		"Mach Virtual Memory Statistics: (page size of 16384 bytes)\n" +
		"Pages free:                               10000.\n" +
		"Pages active:                            400000.\n" +
		"Pages inactive:                          300000.\n" +
		"Pages speculative:                        5000.\n"

	m := parseMemory(text)

	assert.Equal(t, uint64(17179869184), *m.TotalBytes)
	assert.Equal(t, uint64(315000*16384), *m.AvailableBytes)
}

func TestParseMemory_Windows(t *testing.T) {
	m := parseMemory("total_bytes=17179869184\navailable_bytes=8589934592\nmodules=2\nspeed_mts=3200\n")

	assert.Equal(t, uint64(17179869184), *m.TotalBytes)
	assert.Equal(t, 2, *m.Modules)
	assert.Equal(t, 3200, *m.SpeedMTs)
	assert.InDelta(t, 50.0, *m.UsedPct(), 0.01)
}

func TestParseECC(t *testing.T) {
	ce, ue := parseECC("corrected=3\nuncorrectable=0\n\ncorrected=1\nuncorrectable=1\n")
	assert.Equal(t, 4, *ce)
	assert.Equal(t, 1, *ue)

	ce, ue = parseECC("")
	assert.Nil(t, ce)
	assert.Nil(t, ue)
}

const sataSmart = `{
  "device": {"name": "/dev/sda", "protocol": "ATA"},
  "model_name": "WDC WD10EZEX-08WN4A0",
  "serial_number": "WD-WCC6Y0000000",
  "user_capacity": {"bytes": 1000204886016},
  "rotation_rate": 7200,
  "smart_status": {"passed": true},
  "temperature": {"current": 41},
  "power_on_time": {"hours": 31234},
  "ata_smart_attributes": {"table": [
    {"id": 5, "value": 200, "raw": {"value": 3}},
    {"id": 9, "value": 58, "raw": {"value": 31234}},
    {"id": 194, "value": 106, "raw": {"value": 176094183465}},
    {"id": 197, "value": 200, "raw": {"value": 2}},
    {"id": 198, "value": 200, "raw": {"value": 0}}
  ]}
}`

func TestParseSmart_ATA(t *testing.T) {
	m, err := parseSmart(sataSmart)
	require.NoError(t, err)

	assert.Equal(t, "WDC WD10EZEX-08WN4A0", m.Model)
	assert.True(t, *m.Rotational)
	assert.True(t, *m.SmartPassed)
	assert.Equal(t, 5, *m.BadSectors)
	assert.Equal(t, 41.0, *m.TemperatureC)
	assert.Equal(t, 31234, *m.PowerOnHours)
	assert.Nil(t, m.SmartHealthPct)
}

func TestParseSmart_ATASSDLifeAndTemperatureFromAttribute(t *testing.T) {
	text := `{"model_name": "SanDisk SSD PLUS", "rotation_rate": 0,
	  "ata_smart_attributes": {"table": [
	    {"id": 194, "value": 70, "raw": {"value": 30}},
	    {"id": 231, "value": 60, "raw": {"value": 60}},
	    {"id": 241, "value": 100, "raw": {"value": 19531250000}}
	  ]}}`

	m, err := parseSmart(text)
	require.NoError(t, err)

	assert.False(t, *m.Rotational)
	assert.Equal(t, 60.0, *m.SmartHealthPct)
	assert.Equal(t, 30.0, *m.TemperatureC)
	assert.InDelta(t, 10.0, *m.TBWWritten, 0.001)
	assert.Nil(t, m.SmartPassed)
	assert.Nil(t, m.BadSectors)
}

func TestParseSmart_NVMe(t *testing.T) {
	text := `{"device": {"name": "/dev/nvme0", "protocol": "NVMe"}, "model_name": "Samsung SSD 970 EVO Plus 1TB",
	  "smart_status": {"passed": true},
	  "nvme_smart_health_information_log": {"available_spare": 100, "percentage_used": 12,
	    "data_units_written": 39062500, "media_errors": 0, "temperature": 44, "power_on_hours": 900}}`

	m, err := parseSmart(text)
	require.NoError(t, err)

	assert.Equal(t, "NVMe", m.Protocol)
	assert.Equal(t, 0, *m.BadSectors)
	assert.Equal(t, 100.0, *m.SmartHealthPct)
	assert.Equal(t, 12.0, *m.EnduranceUsedPct)
	assert.InDelta(t, 20.0, *m.TBWWritten, 0.001)
	assert.Equal(t, 44.0, *m.TemperatureC)
	assert.Equal(t, 900, *m.PowerOnHours)
}

func TestParseSmart_Errors(t *testing.T) {
	_, err := parseSmart("smartctl: not json")
	assert.Error(t, err)

	_, err = parseSmart(`{"smartctl": {"exit_status": 2}}`)
	assert.Error(t, err)
}

func TestParseSmartScan(t *testing.T) {
	devices, err := parseSmartScan(`{"devices": [
	  {"name": "/dev/sda", "type": "sat"},
	  {"name": "/dev/nvme0", "type": "nvme"},
	  {"name": "/dev/sda", "type": "sat"}
	]}`)
	require.NoError(t, err)

	assert.Equal(t, []smartDevice{{Name: "/dev/sda", Type: "sat"}, {Name: "/dev/nvme0", Type: "nvme"}}, devices)
}

func TestParseDiskList_Lsblk(t *testing.T) {
	text := `{"blockdevices": [
	  {"name": "sda", "model": "Samsung SSD 860 ", "serial": "S3Z", "size": 500107862016, "rota": false, "type": "disk", "tran": "sata"},
	  {"name": "sdb", "model": "TOSHIBA", "serial": null, "size": "1000204886016", "rota": "1", "type": "disk", "tran": "usb"},
	  {"name": "zram0", "model": null, "size": 8589934592, "rota": false, "type": "disk", "tran": null},
	  {"name": "sr0", "model": "DVD", "size": 1073741312, "rota": true, "type": "rom", "tran": "sata"}
	]}`

	drives := parseDiskList(text)

	require.Len(t, drives, 2)
	assert.Equal(t, "Samsung SSD 860", drives[0].Model)
	assert.Equal(t, "/dev/sda", drives[0].Device)
	assert.Equal(t, uint64(500107862016), *drives[0].CapacityBytes)
	assert.False(t, *drives[0].Rotational)
	assert.Equal(t, "SATA", drives[0].Protocol)
	assert.True(t, *drives[1].Rotational)
	assert.Equal(t, uint64(1000204886016), *drives[1].CapacityBytes)
}

func TestParseDiskList_Diskutil(t *testing.T) {
	text := `   Device Identifier:         disk0
   Device / Media Name:       APPLE SSD AP0512Q
   Whole:                     Yes
   Protocol:                  Apple Fabric
   SMART Status:              Verified
   Disk Size:                 500.3 GB (500277790720 Bytes) (exactly 977105060 512-Byte-Units)
   Solid State:               Yes
**********

   Device Identifier:         disk0s1
   Whole:                     No
**********

   Device Identifier:         disk3
   Device / Media Name:       APFS Container
   Whole:                     Yes
   Virtual:                   Yes
**********
`
	drives := parseDiskList(text)

	require.Len(t, drives, 1)
	assert.Equal(t, "APPLE SSD AP0512Q", drives[0].Model)
	assert.Equal(t, "/dev/disk0", drives[0].Device)
	assert.True(t, *drives[0].SmartPassed)
	assert.False(t, *drives[0].Rotational)
	assert.Equal(t, uint64(500277790720), *drives[0].CapacityBytes)
}

func TestParseDiskList_PhysicalDisk(t *testing.T) {
	text := "FriendlyName          : KXG60ZNV512G TOSHIBA\r\nSerialNumber          : 0000_0000\r\nMediaType             : SSD\r\n" +
		"BusType               : NVMe\r\nSize                  : 512110190592\r\nHealthStatus          : Unhealthy\r\n" +
		"Wear                  : 35\r\nTemperature           : 47\r\nPowerOnHours          : 8123\r\nReadErrorsUncorrected : 0\r\n"

	drives := parseDiskList(text)

	require.Len(t, drives, 1)
	d := drives[0]
	assert.Equal(t, "KXG60ZNV512G TOSHIBA", d.Model)
	assert.False(t, *d.SmartPassed)
	assert.False(t, *d.Rotational)
	assert.Equal(t, 35.0, *d.EnduranceUsedPct)
	assert.Nil(t, d.SmartHealthPct, "Windows wear is endurance used, not remaining health")
	assert.Equal(t, 47.0, *d.TemperatureC)
	assert.Equal(t, 0, *d.BadSectors)
}

func TestParseBatteries_Sysfs(t *testing.T) {
	text := "name=BAT0\nmodel_name=5B10W13930\nmanufacturer=SMP\ncycle_count=0\nenergy_full=45000000\nenergy_full_design=50000000\nhealth=Good\n\n"

	batteries := parseBatteries(text)

	require.Len(t, batteries, 1)
	b := batteries[0]
	assert.Equal(t, "5B10W13930", b.Model)
	assert.Nil(t, b.CycleCount, "a zero counter next to capacity data means the gauge does not count")
	assert.Equal(t, 90.0, *b.CapacityPct())
	assert.Equal(t, "Good", b.Condition)
}

func TestParseBatteries_SystemProfiler(t *testing.T) {
	text := `Power:

    Battery Information:

      Model Information:
          Serial Number: F8Y0000000
          Manufacturer: SMP
          Device Name: bq20z451
      Charge Information:
          Fully Charged: No
          Full Charge Capacity (mAh): 4382
      Health Information:
          Cycle Count: 512
          Condition: Service Recommended
          Maximum Capacity: 79%

    System Power Settings:

      AC Power:
          System Sleep Timer (Minutes): 1
`
	batteries := parseBatteries(text)

	require.Len(t, batteries, 1)
	b := batteries[0]
	assert.Equal(t, "bq20z451", b.Model)
	assert.Equal(t, 512, *b.CycleCount)
	assert.Equal(t, 79.0, *b.CapacityPct())
	assert.Equal(t, "Service Recommended", b.Condition)
}

func TestParseBatteries_Windows(t *testing.T) {
	text := "\r\nName                : DELL 7FHHJ\r\nCycleCount          : 310\r\nDesignedCapacity    : 56000\r\n" +
		"FullChargedCapacity : 50400\r\nCondition           : OK\r\n\r\n"

	batteries := parseBatteries(text)

	require.Len(t, batteries, 1)
	assert.Equal(t, 310, *batteries[0].CycleCount)
	assert.Equal(t, 90.0, *batteries[0].CapacityPct())
}

func TestParseBatteries_NoBattery(t *testing.T) {
	assert.Empty(t, parseBatteries("Power:\n\n    System Power Settings:\n\n      AC Power:\n          Display Sleep Timer (Minutes): 10\n"))
}

const profilerDisplaysJSON = `{"SPDisplaysDataType": [{
  "_name": "kHW_AppleM2Item", "sppci_model": "Apple M2", "sppci_cores": "10", "spdisplays_vendor": "sppci_vendor_Apple",
  "spdisplays_ndrvs": [
    {"_name": "Color LCD", "_spdisplays_pixels": "2940 x 1912", "_spdisplays_resolution": "1470 x 956 @ 60.00Hz",
     "spdisplays_connection_type": "spdisplays_internal"},
    {"_name": "DELL P2419H", "_spdisplays_resolution": "1920 x 1080 @ 60.00Hz"}
  ]}]}`

func TestParseDisplays_Profiler(t *testing.T) {
	displays, err := parseDisplays(profilerDisplaysJSON)
	require.NoError(t, err)

	require.Len(t, displays, 2)
	assert.Equal(t, "Color LCD", displays[0].Name)
	assert.Equal(t, "2940x1912", displays[0].Resolution())
	assert.True(t, *displays[0].Builtin)
	assert.Equal(t, 60.0, *displays[0].RefreshHz)
	assert.Equal(t, "1920x1080", displays[1].Resolution())
	assert.False(t, *displays[1].Builtin)
}

func TestParseDisplays_DRM(t *testing.T) {
	displays, err := parseDisplays("name=card0-eDP-1\nmode=1920x1080\n\nname=card0-HDMI-A-1\nmode=\n\n")
	require.NoError(t, err)

	require.Len(t, displays, 2)
	assert.Equal(t, "eDP-1", displays[0].Name)
	assert.True(t, *displays[0].Builtin)
	assert.Equal(t, "HDMI-A-1", displays[1].Name)
	assert.False(t, *displays[1].Builtin)
	assert.Nil(t, displays[1].Width)
}

func TestParseGPUs(t *testing.T) {
	gpus, err := parseGPUs(profilerDisplaysJSON)
	require.NoError(t, err)
	require.Len(t, gpus, 1)
	assert.Equal(t, "Apple M2", gpus[0].Model)
	assert.Equal(t, "Apple", gpus[0].Vendor)
	assert.Equal(t, 10, *gpus[0].Cores)

	gpus, err = parseGPUs("Name=NVIDIA GeForce GTX 1650\nAdapterRAM=4293918720\nStatus=Error\n\nName=Intel(R) UHD Graphics 630\nAdapterRAM=1073741824\nStatus=OK\n\n")
	require.NoError(t, err)
	require.Len(t, gpus, 2)
	assert.False(t, *gpus[0].DeviceOK)
	assert.Equal(t, "Intel", gpus[1].Vendor)
}

func TestMergeNvidia(t *testing.T) {
	inventory := []scoring.ProcessorMetrics{
		{Model: "Intel Corporation UHD Graphics 630", Vendor: "Intel"},
		{Model: "NVIDIA Corporation TU117M [GeForce GTX 1650 Mobile]", Vendor: "NVIDIA"},
	}
	smi := parseNvidiaSMI("NVIDIA GeForce GTX 1650, 83, 12, 4096\n")

	merged := mergeNvidia(inventory, smi)

	require.Len(t, merged, 2)
	assert.Equal(t, "NVIDIA GeForce GTX 1650", merged[1].Model)
	assert.Equal(t, 83.0, *merged[1].TemperatureC)
	assert.Equal(t, 12.0, *merged[1].UsagePct)
	assert.Equal(t, uint64(4096)<<20, *merged[1].MemoryBytes)
}

func TestParseAdapters_Darwin(t *testing.T) {
	ports := "\nHardware Port: Wi-Fi\nDevice: en0\nEthernet Address: a4:83:e7:00:00:01\n\n" +
		"Hardware Port: Thunderbolt Bridge\nDevice: bridge0\nEthernet Address: N/A\n\n" +
		"Hardware Port: USB 10/100/1000 LAN\nDevice: en7\nEthernet Address: 00:e0:4c:00:00:02\n\n" +
		"VLAN Configurations\n===================\n"
	ifconfig := "lo0: flags=8049<UP,LOOPBACK,RUNNING,MULTICAST> mtu 16384\n\tinet 127.0.0.1 netmask 0xff000000\n" +
		"en0: flags=8863<UP,BROADCAST,SMART,RUNNING,SIMPLEX,MULTICAST> mtu 1500\n\tether a4:83:e7:00:00:01\n\tstatus: active\n" +
		"en7: flags=8863<UP,BROADCAST,SMART,RUNNING,SIMPLEX,MULTICAST> mtu 1500\n\tstatus: inactive\n"

	adapters := parseAdapters(ports)
	applyIfconfig(adapters, parseIfconfig(ifconfig))

	require.Len(t, adapters, 2)
	assert.Equal(t, "en0", adapters[0].Name)
	assert.Equal(t, "wifi", adapters[0].Type)
	assert.True(t, *adapters[0].LinkUp)
	assert.Equal(t, "ethernet", adapters[1].Type)
	assert.False(t, *adapters[1].LinkUp)
}

func TestParseAdapters_Records(t *testing.T) {
	text := "name=Ethernet\noperstate=Disconnected\nspeed=0\nmac=00-15-5D-00-00-01\nrx_packets=0\ntx_packets=0\nrx_errors=0\ntx_errors=0\ndevice_status=Error\n\n"

	adapters := parseAdapters(text)

	require.Len(t, adapters, 1)
	assert.False(t, *adapters[0].LinkUp)
	assert.Nil(t, adapters[0].SpeedMbps)
	assert.False(t, *adapters[0].DeviceOK)
}

func TestParseFans(t *testing.T) {
	fans := parseFans("name=thinkpad/fan1\nrpm=2400\n\nname=nct6775/fan2\nrpm=0\nalarm=1\n\nName=CPU Fan\nStatus=OK\n\n")

	require.Len(t, fans, 3)
	assert.Nil(t, fans[0].Fault)
	assert.True(t, *fans[1].Fault)
	assert.False(t, *fans[2].Fault)
}

func TestParseDevices(t *testing.T) {
	lsusb := "Bus 002 Device 001: ID 1d6b:0003 Linux Foundation 3.0 root hub\n" +
		"Bus 001 Device 003: ID 04f2:b604 Chicony Electronics Co., Ltd Integrated Camera\n" +
		"Bus 001 Device 002: ID 8087:0a2b\n"

	m := parseDevices(lsusb)
	assert.Equal(t, []string{"8087:0a2b", "Chicony Electronics Co., Ltd Integrated Camera", "Linux Foundation 3.0 root hub"}, m.Devices)
	assert.False(t, m.StatusReported)

	m = parseDevices("FriendlyName=HID Keyboard Device\nStatus=OK\n\nFriendlyName=HID Keyboard Device\nStatus=OK\n\nFriendlyName=Standard PS/2 Keyboard\nStatus=Error\n\n")
	assert.Equal(t, []string{"HID Keyboard Device", "Standard PS/2 Keyboard"}, m.Devices)
	assert.Equal(t, []string{"Standard PS/2 Keyboard"}, m.Failed)
	assert.True(t, m.StatusReported)
}

func TestParseIdentity(t *testing.T) {
	text := "hostname=bench-01\nmanufacturer=LENOVO\nmodel=20L8S02D00\nserial_number=To Be Filled By O.E.M.\n" +
		"bios_version=N22ET80W (1.57 )\nos_name=Ubuntu\nos_version=24.04\nkernel=6.8.0-45-generic\narchitecture=x86_64\nuptime=35210\n"

	info := parseIdentity(text)

	assert.Equal(t, "bench-01", info.Hostname)
	assert.Equal(t, "LENOVO", info.Manufacturer)
	assert.Empty(t, info.SerialNumber)
	assert.Equal(t, "N22ET80W (1.57 )", info.BIOSVersion)
	assert.Equal(t, int64(35210), info.Uptime)
}
