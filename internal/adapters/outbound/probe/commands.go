package probe

import (
	"fmt"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Table maps a command id to the native command that provides it on each
// platform. Probes only ever ask for ids; a missing entry means the
// metric is unsupported on that platform.
//
// Every command for a given id prints the same shape of output, usually
// key/value records separated by blank lines, so the probe that parses it
// does not care which platform produced it.
type Table map[domain.Platform]map[string]domain.Command

// Lookup resolves a command id for a platform.
func (t Table) Lookup(platform domain.Platform, id string) (domain.Command, bool) {
	cmd, ok := t[platform][id]
	if !ok {
		return domain.Command{}, false
	}
	cmd.ID = id
	return cmd, true
}

// Supports reports whether any of ids resolves on platform.
func (t Table) Supports(platform domain.Platform, ids ...string) bool {
	for _, id := range ids {
		if _, ok := t[platform][id]; ok {
			return true
		}
	}
	return false
}

const (
	cmdCPUInfo         = "cpu.info"
	cmdCPUTemperature  = "cpu.temperature"
	cmdCPULoad         = "cpu.load"
	cmdRAMInfo         = "ram.info"
	cmdRAMECC          = "ram.ecc"
	cmdStorageScan     = "storage.scan"
	cmdStorageSmart    = "storage.smart"
	cmdStorageList     = "storage.list"
	cmdBatteryStatus   = "battery.status"
	cmdScreenInfo      = "screen.info"
	cmdGPUInfo         = "gpu.info"
	cmdGPUTemperature  = "gpu.temperature"
	cmdGPUNvidia       = "gpu.nvidia"
	cmdNetworkAdapters = "network.adapters"
	cmdNetworkStatus   = "network.status"
	cmdFanStatus       = "fan.status"
	cmdKeyboardDevices = "keyboard.devices"
	cmdTouchpadDevices = "touchpad.devices"
	cmdUSBDevices      = "usb.devices"
	cmdWebcamDevices   = "webcam.devices"
	cmdAudioDevices    = "audio.devices"
	cmdMachineIdentity = "machine.identity"
)

func command(name string, args ...string) domain.Command {
	return domain.Command{Name: name, Args: args}
}

func sh(script string) domain.Command {
	return command("sh", "-c", script)
}

// psPrelude forces UTF-8 output; the console default is the OEM code page.
const psPrelude = "[Console]::OutputEncoding = [System.Text.Encoding]::UTF8; $ProgressPreference = 'SilentlyContinue'; "

func ps(script string) domain.Command {
	return command("powershell", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", psPrelude+script)
}

// psRecords prints selected properties of each object as key=value
// records. Unlike Format-List it never wraps long values.
func psRecords(source string, props ...string) domain.Command {
	script := source + " | ForEach-Object { $o = $_; "
	for _, p := range props {
		script += fmt.Sprintf("'%s=' + $o.%s; ", p, p)
	}
	script += "'' }"
	return ps(script)
}

// pnpDevices lists present Plug and Play devices of the given classes
// with their device-manager status.
func pnpDevices(filter string, classes ...string) domain.Command {
	list := ""
	for i, c := range classes {
		if i > 0 {
			list += ","
		}
		list += c
	}
	source := "Get-PnpDevice -Class " + list + " -PresentOnly -ErrorAction SilentlyContinue"
	if filter != "" {
		source += " | Where-Object { $_.FriendlyName -match '" + filter + "' }"
	}
	return psRecords(source, "FriendlyName", "Status")
}

// profilerDevices names the system_profiler entries of a data type that
// carry the marker attribute, as name= records.
func profilerDevices(dataType, marker string) domain.Command {
	return sh(`system_profiler ` + dataType + ` | awk '/^ +[^:]+:$/ { n = $0; p = 0 } /` + marker + `/ && !p { gsub(/^ +|:$/, "", n); print "name=" n; print ""; p = 1 }'`)
}

// inputDevices filters /proc/bus/input/devices by handler and name.
func inputDevices(handler, namePattern string) domain.Command {
	return command("awk",
		`/^N: Name=/ { n = $0; sub(/^N: Name=/, "", n); gsub(/"/, "", n) } `+
			`/^H: Handlers=/ && /`+handler+`/ && tolower(n) ~ /`+namePattern+`/ { print "name=" n; print "" }`,
		"/proc/bus/input/devices")
}

var smartScan = domain.Command{Name: "smartctl", Args: []string{"--scan", "--json"}, AllowNonZeroExit: true}
var smartQuery = domain.Command{Name: "smartctl", Args: []string{"-a", "--json", "-d", "{type}", "{device}"}, AllowNonZeroExit: true}
var nvidiaQuery = command("nvidia-smi", "--query-gpu=name,temperature.gpu,utilization.gpu,memory.total", "--format=csv,noheader,nounits")

const linuxSensors = `for z in /sys/class/thermal/thermal_zone*; do [ -r "$z/temp" ] || continue; echo "sensor=$(cat "$z/type")"; echo "temp=$(cat "$z/temp")"; echo; done; ` +
	`for h in /sys/class/hwmon/hwmon*; do n=$(cat "$h/name" 2>/dev/null); for t in "$h"/temp*_input; do [ -r "$t" ] || continue; echo "sensor=$n"; echo "temp=$(cat "$t")"; echo; done; done`

// DefaultTable is the built-in capability table.
func DefaultTable() Table {
	return Table{
		domain.PlatformLinux: {
			cmdCPUInfo:        command("cat", "/proc/cpuinfo"),
			cmdCPUTemperature: sh(linuxSensors),
			cmdCPULoad:        sh(`command -v vmstat >/dev/null || exit 127; vmstat 1 2 | awk 'END { print "usage=" 100 - $15 }'`),
			cmdRAMInfo:        command("cat", "/proc/meminfo"),
			cmdRAMECC: sh(`for m in /sys/devices/system/edac/mc/mc*; do [ -r "$m/ce_count" ] || continue; ` +
				`echo "corrected=$(cat "$m/ce_count")"; echo "uncorrectable=$(cat "$m/ue_count")"; echo; done`),
			cmdStorageScan:  smartScan,
			cmdStorageSmart: smartQuery,
			cmdStorageList:  command("lsblk", "-J", "-b", "-d", "-o", "NAME,MODEL,SERIAL,SIZE,ROTA,TYPE,TRAN"),
			cmdBatteryStatus: sh(`for b in /sys/class/power_supply/*; do [ "$(cat "$b/type" 2>/dev/null)" = Battery ] || continue; echo "name=${b##*/}"; ` +
				`for f in model_name manufacturer cycle_count energy_full energy_full_design charge_full charge_full_design health; do ` +
				`[ -r "$b/$f" ] && echo "$f=$(cat "$b/$f" 2>/dev/null)"; done; echo; done`),
			cmdScreenInfo: sh(`for c in /sys/class/drm/card*-*; do [ "$(cat "$c/status" 2>/dev/null)" = connected ] || continue; ` +
				`echo "name=${c##*/}"; echo "mode=$(head -n 1 "$c/modes")"; echo; done`),
			cmdGPUInfo:        sh(`command -v lspci >/dev/null || exit 127; lspci -mm | awk -F '"' '/VGA|3D|Display/ { print "name=" $4 " " $6; print "" }'`),
			cmdGPUTemperature: sh(linuxSensors),
			cmdGPUNvidia:      nvidiaQuery,
			cmdNetworkAdapters: sh(`for n in /sys/class/net/*; do [ -e "$n/device" ] || continue; s="$n/statistics"; echo "name=${n##*/}"; ` +
				`echo "operstate=$(cat "$n/operstate")"; echo "speed=$(cat "$n/speed" 2>/dev/null)"; echo "mac=$(cat "$n/address")"; ` +
				`if [ -d "$n/wireless" ]; then echo "type=wifi"; else echo "type=ethernet"; fi; ` +
				`echo "rx_packets=$(cat "$s/rx_packets")"; echo "tx_packets=$(cat "$s/tx_packets")"; ` +
				`echo "rx_errors=$(cat "$s/rx_errors")"; echo "tx_errors=$(cat "$s/tx_errors")"; echo; done`),
			cmdFanStatus: sh(`for h in /sys/class/hwmon/hwmon*; do n=$(cat "$h/name" 2>/dev/null); for f in "$h"/fan*_input; do [ -r "$f" ] || continue; ` +
				`p=${f%_input}; echo "name=$n/${p##*/}"; echo "rpm=$(cat "$f")"; ` +
				`[ -r "${p}_fault" ] && echo "fault=$(cat "${p}_fault")"; [ -r "${p}_alarm" ] && echo "alarm=$(cat "${p}_alarm")"; echo; done; done`),
			cmdKeyboardDevices: inputDevices("kbd", "keyboard"),
			cmdTouchpadDevices: inputDevices("mouse", "touchpad|trackpad|synaptics|elan|alps|glidepoint"),
			cmdUSBDevices:      command("lsusb"),
			cmdWebcamDevices:   sh(`for d in /sys/class/video4linux/video*; do [ -r "$d/name" ] && echo "name=$(cat "$d/name")" && echo; done; true`),
			cmdAudioDevices:    command("awk", "-F", ": ", `/^ *[0-9]+ \[/ { print "name=" $2; print "" }`, "/proc/asound/cards"),
			cmdMachineIdentity: sh(`d=/sys/class/dmi/id; rd() { cat "$d/$1" 2>/dev/null; }; ` +
				`echo "hostname=$(uname -n)"; echo "manufacturer=$(rd sys_vendor)"; echo "model=$(rd product_name)"; ` +
				`echo "serial_number=$(rd product_serial)"; echo "bios_version=$(rd bios_version)"; ` +
				`[ -r /etc/os-release ] && . /etc/os-release && echo "os_name=$NAME" && echo "os_version=$VERSION_ID"; ` +
				`echo "kernel=$(uname -r)"; echo "architecture=$(uname -m)"; echo "uptime=$(cut -d. -f1 /proc/uptime)"`),
		},
		domain.PlatformDarwin: {
			cmdCPUInfo:         command("sysctl", "machdep.cpu.brand_string", "hw.physicalcpu", "hw.logicalcpu"),
			cmdCPUTemperature:  command("osx-cpu-temp"),
			cmdCPULoad:         sh(`top -l 2 -n 0 -s 1 | awk '/CPU usage/ { u = $3 + $5 } END { print "usage=" u }'`),
			cmdRAMInfo:         sh(`sysctl hw.memsize; vm_stat`),
			cmdStorageScan:     smartScan,
			cmdStorageSmart:    smartQuery,
			cmdStorageList:     command("diskutil", "info", "-all"),
			cmdBatteryStatus:   command("system_profiler", "SPPowerDataType"),
			cmdScreenInfo:      command("system_profiler", "SPDisplaysDataType", "-json"),
			cmdGPUInfo:         command("system_profiler", "SPDisplaysDataType", "-json"),
			cmdGPUNvidia:       nvidiaQuery,
			cmdNetworkAdapters: command("networksetup", "-listallhardwareports"),
			cmdNetworkStatus:   command("ifconfig"),
			cmdKeyboardDevices: profilerDevices("SPSPIDataType SPUSBDataType", "[Kk]eyboard"),
			cmdTouchpadDevices: profilerDevices("SPSPIDataType SPUSBDataType", "[Tt]rackpad"),
			cmdUSBDevices:      profilerDevices("SPUSBDataType", "Product ID:"),
			cmdWebcamDevices:   profilerDevices("SPCameraDataType", "Model ID:"),
			cmdAudioDevices:    profilerDevices("SPAudioDataType", "Channels:|Transport:"),
			cmdMachineIdentity: sh(`echo "hostname=$(hostname)"; echo "manufacturer=Apple Inc."; echo "model=$(sysctl -n hw.model)"; ` +
				`system_profiler SPHardwareDataType | awk -F ': ' '/Serial Number/ { print "serial_number=" $2 } /System Firmware Version/ { print "bios_version=" $2 }'; ` +
				`echo "os_name=$(sw_vers -productName)"; echo "os_version=$(sw_vers -productVersion)"; ` +
				`echo "kernel=$(uname -r)"; echo "architecture=$(uname -m)"; ` +
				`echo "uptime=$(( $(date +%s) - $(sysctl -n kern.boottime | awk -F '[ ,]+' '{ print $4 }') ))"`),
		},
		domain.PlatformWindows: {
			cmdCPUInfo: psRecords("Get-CimInstance Win32_Processor",
				"Name", "Manufacturer", "NumberOfCores", "NumberOfLogicalProcessors", "MaxClockSpeed"),
			cmdCPUTemperature: ps(`Get-CimInstance -Namespace root/wmi -ClassName MSAcpi_ThermalZoneTemperature -ErrorAction Stop | ` +
				`ForEach-Object { 'sensor=' + $_.InstanceName; 'temp=' + [math]::Round($_.CurrentTemperature / 10 - 273.15, 1); '' }`),
			cmdCPULoad: ps(`'usage=' + (Get-CimInstance Win32_Processor | Measure-Object -Property LoadPercentage -Average).Average`),
			cmdRAMInfo: ps(`$os = Get-CimInstance Win32_OperatingSystem; $m = @(Get-CimInstance Win32_PhysicalMemory); ` +
				`'total_bytes=' + ($os.TotalVisibleMemorySize * 1024); 'available_bytes=' + ($os.FreePhysicalMemory * 1024); ` +
				`'modules=' + $m.Count; 'speed_mts=' + ($m | Select-Object -First 1).Speed`),
			cmdStorageScan:  smartScan,
			cmdStorageSmart: smartQuery,
			cmdStorageList: ps(`Get-PhysicalDisk | ForEach-Object { $r = $_ | Get-StorageReliabilityCounter -ErrorAction SilentlyContinue; ` +
				`[pscustomobject]@{ FriendlyName = $_.FriendlyName; SerialNumber = $_.SerialNumber; MediaType = $_.MediaType; BusType = $_.BusType; ` +
				`Size = $_.Size; HealthStatus = $_.HealthStatus; Wear = $r.Wear; Temperature = $r.Temperature; PowerOnHours = $r.PowerOnHours; ` +
				`ReadErrorsUncorrected = $r.ReadErrorsUncorrected } } | Format-List | Out-String -Width 4096`),
			cmdBatteryStatus: ps(`$b = @(Get-CimInstance Win32_Battery); if ($b.Count -gt 0) { ` +
				`$w = { param($c) Get-CimInstance -Namespace root/wmi -ClassName $c -ErrorAction SilentlyContinue | Select-Object -First 1 }; ` +
				`[pscustomobject]@{ Name = $b[0].Name; CycleCount = (& $w BatteryCycleCount).CycleCount; ` +
				`DesignedCapacity = (& $w BatteryStaticData).DesignedCapacity; FullChargedCapacity = (& $w BatteryFullChargedCapacity).FullChargedCapacity; ` +
				`Condition = $b[0].Status } | Format-List | Out-String -Width 4096 }`),
			cmdScreenInfo: ps(`Get-CimInstance Win32_VideoController | Where-Object { $_.CurrentHorizontalResolution } | ForEach-Object { ` +
				`'name=' + $_.Name; 'mode=' + $_.CurrentHorizontalResolution + 'x' + $_.CurrentVerticalResolution; 'refresh_hz=' + $_.CurrentRefreshRate; '' }`),
			cmdGPUInfo:   psRecords("Get-CimInstance Win32_VideoController", "Name", "AdapterRAM", "Status"),
			cmdGPUNvidia: nvidiaQuery,
			cmdNetworkAdapters: ps(`Get-NetAdapter -Physical | ForEach-Object { $s = $_ | Get-NetAdapterStatistics -ErrorAction SilentlyContinue; ` +
				`$p = Get-PnpDevice -InstanceId $_.PnPDeviceID -ErrorAction SilentlyContinue; ` +
				`'name=' + $_.Name; 'operstate=' + $_.Status; 'speed=' + [math]::Round($_.Speed / 1000000); 'mac=' + $_.MacAddress; ` +
				`'rx_packets=' + $s.ReceivedUnicastPackets; 'tx_packets=' + $s.SentUnicastPackets; ` +
				`'rx_errors=' + $s.ReceivedPacketErrors; 'tx_errors=' + $s.OutboundPacketErrors; 'device_status=' + $p.Status; '' }`),
			cmdFanStatus:       psRecords("Get-CimInstance Win32_Fan", "Name", "Status"),
			cmdKeyboardDevices: pnpDevices("", "Keyboard"),
			cmdTouchpadDevices: pnpDevices("touch ?pad|precision|synaptics|elan|alps", "Mouse", "HIDClass"),
			cmdUSBDevices:      pnpDevices("", "USB"),
			cmdWebcamDevices:   pnpDevices("", "Camera", "Image"),
			cmdAudioDevices:    psRecords("Get-CimInstance Win32_SoundDevice", "Name", "Status"),
			cmdMachineIdentity: ps(`$cs = Get-CimInstance Win32_ComputerSystem; $bios = Get-CimInstance Win32_BIOS; $os = Get-CimInstance Win32_OperatingSystem; ` +
				`[pscustomobject]@{ Hostname = $env:COMPUTERNAME; Manufacturer = $cs.Manufacturer; Model = $cs.Model; SerialNumber = $bios.SerialNumber; ` +
				`BiosVersion = $bios.SMBIOSBIOSVersion; OsName = $os.Caption; OsVersion = $os.Version; Kernel = $os.BuildNumber; ` +
				`Architecture = $env:PROCESSOR_ARCHITECTURE; Uptime = [int]((Get-Date) - $os.LastBootUpTime).TotalSeconds } | Format-List | Out-String -Width 4096`),
		},
	}
}
