// Package serviceaddr resolves the address a service instance reports in
// its responses. The address is resolved once at process startup and passed
// explicitly to every component that stamps it into a payload.
package serviceaddr

import (
	"fmt"
	"net"
	"os"
)

// Resolve returns "<hostname>/<ip>:<port>" for this instance.
func Resolve(port int) string {
	return fmt.Sprintf("%s/%s:%d", hostname(), ipAddress(), port)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown host name"
	}
	return name
}

func ipAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "unknown IP address"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return "unknown IP address"
}
