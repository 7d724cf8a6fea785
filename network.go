package hostid

import (
	"log/slog"
	"net"
	"slices"
	"strings"
)

// virtualInterfacePrefixes are interface names that come and go with VPNs,
// containers, hypervisors and docking stations.
var virtualInterfacePrefixes = []string{
	"utun", "tun", "tap", "ipsec", "ppp", // tunnels
	"docker", "br-", "veth", // containers
	"virbr", "vnet", "vmnet", "vnic", "vboxnet", // hypervisors
	"bridge",
	"lo",
	"wg",
}

// interfaces is swapped out in tests.
var interfaces = net.Interfaces

// physicalMACs returns the sorted MAC addresses of physical interfaces that
// are up.
func physicalMACs(logger *slog.Logger) ([]string, error) {
	ifaces, err := interfaces()
	if err != nil {
		return nil, err
	}

	var macs []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}

		if iface.Flags&net.FlagUp == 0 || isVirtualInterface(iface.Name) {
			if logger != nil {
				logger.Debug("skipping interface", "interface", iface.Name)
			}
			continue
		}

		macs = append(macs, iface.HardwareAddr.String())
	}

	slices.Sort(macs)
	return slices.Compact(macs), nil
}

// isVirtualInterface matches name case-insensitively against the known
// virtual prefixes.
func isVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	return slices.ContainsFunc(virtualInterfacePrefixes, func(prefix string) bool {
		return strings.HasPrefix(lower, prefix)
	})
}
