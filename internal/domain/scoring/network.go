package scoring

import "github.com/abdidvp/hwaudit/internal/domain"

const (
	networkErrorRatioLimit = 0.01
	networkErrorCost       = 15.0
)

type NetworkMetrics struct {
	Name      string
	Type      string // "ethernet", "wifi"...
	MAC       string
	LinkUp    *bool
	SpeedMbps *float64
	RxPackets *uint64
	TxPackets *uint64
	RxErrors  *uint64
	TxErrors  *uint64
	// DeviceOK is false when the OS reports the adapter in an error state.
	DeviceOK *bool
}

// ErrorRatio returns errors per packet across both directions.
func (m NetworkMetrics) ErrorRatio() *float64 {
	if m.RxPackets == nil || m.TxPackets == nil || m.RxErrors == nil || m.TxErrors == nil {
		return nil
	}
	packets := *m.RxPackets + *m.TxPackets
	if packets == 0 {
		return nil
	}
	r := float64(*m.RxErrors+*m.TxErrors) / float64(packets)
	return &r
}

func (m NetworkMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	putString(out, "name", m.Name)
	putString(out, "type", m.Type)
	putString(out, "mac", m.MAC)
	put(out, "link_up", m.LinkUp)
	put(out, "speed_mbps", m.SpeedMbps)
	put(out, "rx_packets", m.RxPackets)
	put(out, "tx_packets", m.TxPackets)
	put(out, "rx_errors", m.RxErrors)
	put(out, "tx_errors", m.TxErrors)
	put(out, "device_ok", m.DeviceOK)
	return out
}

// ScoreNetwork fails an adapter in an error state and deducts for an
// interface error ratio above 1%. A link that is merely down is not a fault.
func ScoreNetwork(m NetworkMetrics) Assessment {
	var l ledger

	l.expect("link", m.LinkUp != nil, 0)
	if l.optional(m.DeviceOK != nil) && !*m.DeviceOK {
		l.fail("adapter reports an error state")
	}
	if r := m.ErrorRatio(); l.optional(r != nil) && *r > networkErrorRatioLimit {
		l.deduct(networkErrorCost, "interface error ratio %.1f%%", *r*100)
	}
	l.optional(m.SpeedMbps != nil)

	return l.assess()
}
